package modelclient

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/llmgate/promptrefiner/models"
)

var (
	ErrUnavailable   = errors.New("model client unavailable")
	ErrEmptyResponse = errors.New("model returned an empty response")
)

// Category classifies a failed model call.
type Category string

const (
	CategoryNone          Category = ""
	CategoryTimeout       Category = "timeout"
	CategoryAuth          Category = "auth"
	CategoryQuota         Category = "quota"
	CategoryBadRequest    Category = "bad_request"
	CategoryEmptyResponse Category = "empty_response"
	CategoryTransport     Category = "transport"
	CategoryUnavailable   Category = "unavailable"
)

// Outcome is the result of one model refinement attempt. Err is nil exactly when the call succeeded.
type Outcome struct {
	Result     models.RefinementResult
	Structured bool
	Failure    Category
	Err        error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

func success(result models.RefinementResult, structured bool) Outcome {
	return Outcome{Result: result, Structured: structured}
}

func failure(err error) Outcome {
	return Outcome{Failure: Classify(err), Err: err}
}

// Classify maps a provider error to a failure category.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrUnavailable):
		return CategoryUnavailable
	case errors.Is(err, ErrEmptyResponse):
		return CategoryEmptyResponse
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	}

	var providerErr *models.ProviderError
	if errors.As(err, &providerErr) {
		return classifyStatus(providerErr.StatusCode)
	}

	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.DeadlineExceeded:
			return CategoryTimeout
		case codes.Unauthenticated, codes.PermissionDenied:
			return CategoryAuth
		case codes.ResourceExhausted:
			return CategoryQuota
		case codes.InvalidArgument, codes.FailedPrecondition, codes.NotFound:
			return CategoryBadRequest
		}
	}

	return CategoryTransport
}

func classifyStatus(code int) Category {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return CategoryAuth
	case code == http.StatusTooManyRequests:
		return CategoryQuota
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return CategoryTimeout
	case code >= 400 && code < 500:
		return CategoryBadRequest
	default:
		return CategoryTransport
	}
}
