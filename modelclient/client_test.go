package modelclient

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/llmgate/promptrefiner/internal/config"
	"github.com/llmgate/promptrefiner/mockllm"
	"github.com/llmgate/promptrefiner/models"
)

func normalized(prompt string) models.RefinementRequest {
	return models.RefinementRequest{OriginalPrompt: prompt}.Normalize()
}

func TestRefineStructuredResponse(t *testing.T) {
	mock := mockllm.NewMockLLMClient(mockllm.Response{Text: "```json\n{\"refined_prompt\": \"  Better prompt \", \"rationale\": \" Clearer. \"}\n```"})
	client := New(mock, Options{Provider: "mock", Temperature: 0.3})

	outcome := client.Refine(context.Background(), normalized("Schreibe über die Straße."))
	require.True(t, outcome.OK())
	assert.True(t, outcome.Structured)
	assert.Equal(t, models.RefinementResult{RefinedPrompt: "Better prompt", Rationale: "Clearer."}, outcome.Result)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].System, `"Please answer in German."`)
	assert.Contains(t, calls[0].Prompt, "Schreibe über die Straße.")
	assert.InDelta(t, 0.3, calls[0].Temperature, 1e-6)
	assert.Equal(t, DefaultMaxOutputTokens, calls[0].MaxOutputTokens)
}

func TestRefinePlainTextDegrades(t *testing.T) {
	client := New(mockllm.NewMockLLMClient(mockllm.Response{Text: "  Just a better prompt.  "}), Options{Provider: "mock"})

	outcome := client.Refine(context.Background(), normalized("Write a poem."))
	require.True(t, outcome.OK())
	assert.False(t, outcome.Structured)
	assert.Equal(t, models.RefinementResult{RefinedPrompt: "Just a better prompt.", Rationale: FallbackRationale}, outcome.Result)
}

func TestRefineCallFailures(t *testing.T) {
	tests := []struct {
		name     string
		response mockllm.Response
		timeout  time.Duration
		want     Category
	}{
		{"empty", mockllm.Response{Text: "  \n"}, 0, CategoryEmptyResponse},
		{"auth", mockllm.Response{Err: &models.ProviderError{Provider: "x", StatusCode: http.StatusUnauthorized, Err: errors.New("bad key")}}, 0, CategoryAuth},
		{"quota", mockllm.Response{Err: status.Error(codes.ResourceExhausted, "quota")}, 0, CategoryQuota},
		{"transport", mockllm.Response{Err: errors.New("connection reset")}, 0, CategoryTransport},
		{"timeout", mockllm.Response{Text: "late", Delay: time.Second}, 10 * time.Millisecond, CategoryTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(mockllm.NewMockLLMClient(tt.response), Options{Provider: "mock", Timeout: tt.timeout})
			outcome := client.Refine(context.Background(), normalized("Write a poem."))
			require.False(t, outcome.OK())
			assert.Equal(t, tt.want, outcome.Failure)
		})
	}
}

func TestUnavailableClient(t *testing.T) {
	client := Unavailable("gemini")
	assert.False(t, client.Available())

	outcome := client.Refine(context.Background(), normalized("x"))
	assert.ErrorIs(t, outcome.Err, ErrUnavailable)
	assert.Equal(t, CategoryUnavailable, outcome.Failure)
	assert.NoError(t, client.Close())
}

func TestNewFromConfigAvailability(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LLMConfigs
		want bool
	}{
		{"gemini without key", config.LLMConfigs{Provider: "gemini"}, false},
		{"gemini blank key", config.LLMConfigs{Provider: "gemini", Gemini: config.GeminiConfig{Key: "   "}}, false},
		{"openai with key", config.LLMConfigs{Provider: "openai", OpenAI: config.OpenAIConfig{Key: "sk-test", Model: "gpt-4o-mini"}}, true},
		{"claude without key", config.LLMConfigs{Provider: "Claude"}, false},
		{"claude with key", config.LLMConfigs{Provider: "claude", Claude: config.ClaudeConfig{Key: "k"}}, true},
		{"mock", config.LLMConfigs{Provider: "mock"}, true},
		{"unknown", config.LLMConfigs{Provider: "llama"}, false},
		{"none", config.LLMConfigs{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewFromConfig(context.Background(), tt.cfg)
			defer client.Close()
			assert.Equal(t, tt.want, client.Available())
		})
	}
}

func TestClassifyWrappedContextDeadline(t *testing.T) {
	err := errors.Join(errors.New("gemini"), context.DeadlineExceeded)
	assert.Equal(t, CategoryTimeout, Classify(err))
	assert.Equal(t, CategoryNone, Classify(nil))
	assert.Equal(t, CategoryBadRequest, Classify(&models.ProviderError{StatusCode: http.StatusBadRequest}))
	assert.Equal(t, CategoryTransport, Classify(&models.ProviderError{StatusCode: http.StatusBadGateway}))
	assert.Equal(t, CategoryAuth, Classify(status.Error(codes.PermissionDenied, "denied")))
}
