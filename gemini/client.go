package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/llmgate/promptrefiner/internal/config"
	"github.com/llmgate/promptrefiner/models"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

// refinementSchema constrains the answer to {refined_prompt, rationale}.
var refinementSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"refined_prompt": {Type: genai.TypeString},
		"rationale":      {Type: genai.TypeString},
	},
	Required: []string{"refined_prompt", "rationale"},
}

func NewGeminiClient(ctx context.Context, geminiConfig config.GeminiConfig, opts ...option.ClientOption) (*GeminiClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(geminiConfig.Key)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  geminiConfig.Model,
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Generate runs a single JSON-constrained completion and returns the concatenated text parts.
func (c *GeminiClient) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	genModel := c.client.GenerativeModel(c.model)
	genModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	genModel.SetTemperature(req.Temperature)
	if req.MaxOutputTokens > 0 {
		genModel.SetMaxOutputTokens(int32(req.MaxOutputTokens))
	}
	genModel.ResponseMIMEType = "application/json"
	genModel.ResponseSchema = refinementSchema

	resp, err := genModel.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", wrapError(err)
	}
	return responseText(resp), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
		log.Debug().Str("provider", "gemini").Str("finish_reason", mapFinishReason(candidate.FinishReason)).Msg("candidate finished early")
	}
	if candidate.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}

func wrapError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &models.ProviderError{Provider: "gemini", StatusCode: apiErr.Code, Err: err}
	}
	return err
}

func mapFinishReason(reason genai.FinishReason) string {
	switch reason {
	case genai.FinishReasonStop:
		return "stop"
	case genai.FinishReasonMaxTokens:
		return "max_tokens"
	case genai.FinishReasonSafety:
		return "safety"
	case genai.FinishReasonRecitation:
		return "recitation"
	default:
		return "other"
	}
}
