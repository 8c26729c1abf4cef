package claude

import (
	"context"
	"errors"
	"strings"

	"github.com/liushuangls/go-anthropic"

	"github.com/llmgate/promptrefiner/internal/config"
	"github.com/llmgate/promptrefiner/models"
)

// jsonOnlySuffix is appended to the system prompt; the Messages API has no JSON response mode.
const jsonOnlySuffix = "\n\nRespond with the JSON object only, without any surrounding prose."

type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(claudeConfig config.ClaudeConfig) *ClaudeClient {
	var opts []anthropic.ClientOption
	if claudeConfig.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(strings.TrimRight(claudeConfig.BaseURL, "/")))
	}
	return &ClaudeClient{
		client: anthropic.NewClient(claudeConfig.Key, opts...),
		model:  claudeConfig.Model,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	prompt := req.Prompt
	temperature := req.Temperature
	request := anthropic.MessagesRequest{
		Model:  c.model,
		System: req.System + jsonOnlySuffix,
		Messages: []anthropic.Message{
			{
				Role: "user",
				Content: []anthropic.MessageContent{
					{
						Type: "text",
						Text: &prompt,
					},
				},
			},
		},
		MaxTokens:   req.MaxOutputTokens,
		Temperature: &temperature,
	}

	resp, err := c.client.CreateMessages(ctx, request)
	if err != nil {
		return "", wrapError(err)
	}

	var b strings.Builder
	for _, content := range resp.Content {
		if content.Type == "text" {
			b.WriteString(content.Text)
		}
	}
	return b.String(), nil
}

func (c *ClaudeClient) Close() error {
	return nil
}

// apiErrorStatus maps Anthropic error types to the HTTP status the API documents for them.
var apiErrorStatus = map[string]int{
	"invalid_request_error": 400,
	"authentication_error":  401,
	"permission_error":      403,
	"not_found_error":       404,
	"request_too_large":     413,
	"rate_limit_error":      429,
	"api_error":             500,
	"overloaded_error":      529,
}

func wrapError(err error) error {
	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		return &models.ProviderError{Provider: "claude", StatusCode: reqErr.StatusCode, Err: err}
	}
	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		if status, ok := apiErrorStatus[string(apiErr.Type)]; ok {
			return &models.ProviderError{Provider: "claude", StatusCode: status, Err: err}
		}
	}
	return err
}
