package openai

import (
	"context"
	"errors"
	"strings"

	openaigo "github.com/sashabaranov/go-openai"

	"github.com/llmgate/promptrefiner/internal/config"
	"github.com/llmgate/promptrefiner/models"
)

type OpenAIClient struct {
	client *openaigo.Client
	model  string
}

func NewOpenAIClient(openaiConfig config.OpenAIConfig) *OpenAIClient {
	clientConfig := openaigo.DefaultConfig(openaiConfig.Key)
	if openaiConfig.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(openaiConfig.BaseURL, "/")
	}
	return &OpenAIClient{
		client: openaigo.NewClientWithConfig(clientConfig),
		model:  openaiConfig.Model,
	}
}

// Generate calls the Chat Completions API in JSON object mode.
func (c *OpenAIClient) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: c.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: req.System},
			{Role: openaigo.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) Close() error {
	return nil
}

func wrapError(err error) error {
	var apiErr *openaigo.APIError
	if errors.As(err, &apiErr) {
		return &models.ProviderError{Provider: "openai", StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openaigo.RequestError
	if errors.As(err, &reqErr) {
		return &models.ProviderError{Provider: "openai", StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return err
}
