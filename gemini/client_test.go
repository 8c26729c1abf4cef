package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/llmgate/promptrefiner/internal/config"
	"github.com/llmgate/promptrefiner/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewGeminiClient(context.Background(),
		config.GeminiConfig{Key: "test-key", Model: "gemini-1.5-flash"},
		option.WithEndpoint(server.URL),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestGenerate(t *testing.T) {
	var path string
	var captured struct {
		SystemInstruction struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"systemInstruction"`
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig struct {
			Temperature      float64         `json:"temperature"`
			MaxOutputTokens  int             `json:"maxOutputTokens"`
			ResponseMimeType string          `json:"responseMimeType"`
			ResponseSchema   json.RawMessage `json:"responseSchema"`
		} `json:"generationConfig"`
	}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "{\"refined_prompt\":\"a\",\"rationale\":\"b\"}"}]},
				"finishReason": "STOP",
				"index": 0
			}]
		}`))
	})

	got, err := client.Generate(context.Background(), models.GenerationRequest{
		System:          "be helpful",
		Prompt:          "Write a poem.",
		Temperature:     0.3,
		MaxOutputTokens: 2000,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"refined_prompt":"a","rationale":"b"}`, got)

	assert.True(t, strings.HasSuffix(path, "/models/gemini-1.5-flash:generateContent"), path)
	require.Len(t, captured.SystemInstruction.Parts, 1)
	assert.Equal(t, "be helpful", captured.SystemInstruction.Parts[0].Text)
	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.Equal(t, "Write a poem.", captured.Contents[0].Parts[0].Text)
	assert.InDelta(t, 0.3, captured.GenerationConfig.Temperature, 1e-6)
	assert.Equal(t, 2000, captured.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMimeType)
	assert.Contains(t, string(captured.GenerationConfig.ResponseSchema), "refined_prompt")
}

func TestGenerateAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`))
	})

	_, err := client.Generate(context.Background(), models.GenerationRequest{Prompt: "x"})
	var providerErr *models.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusForbidden, providerErr.StatusCode)
	assert.Equal(t, "gemini", providerErr.Provider)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				FinishReason: genai.FinishReasonStop,
				Content: &genai.Content{
					Role:  "model",
					Parts: []genai.Part{genai.Text(`{"refined_prompt":`), genai.Text(`"x","rationale":"y"}`)},
				},
			},
			{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}},
			},
		},
	}
	assert.Equal(t, `{"refined_prompt":"x","rationale":"y"}`, responseText(resp))
}

func TestResponseTextEmpty(t *testing.T) {
	assert.Equal(t, "", responseText(nil))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{}))
	assert.Equal(t, "", responseText(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
	}))
}

func TestMapFinishReason(t *testing.T) {
	assert.Equal(t, "stop", mapFinishReason(genai.FinishReasonStop))
	assert.Equal(t, "max_tokens", mapFinishReason(genai.FinishReasonMaxTokens))
	assert.Equal(t, "safety", mapFinishReason(genai.FinishReasonSafety))
	assert.Equal(t, "other", mapFinishReason(genai.FinishReasonOther))
}

func TestRefinementSchemaRequiresBothFields(t *testing.T) {
	assert.Equal(t, genai.TypeObject, refinementSchema.Type)
	assert.ElementsMatch(t, []string{"refined_prompt", "rationale"}, refinementSchema.Required)
}

func TestWrapError(t *testing.T) {
	err := wrapError(&googleapi.Error{Code: 429, Message: "quota"})

	var providerErr *models.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, 429, providerErr.StatusCode)
	assert.Equal(t, "gemini", providerErr.Provider)

	plain := errors.New("dial tcp: refused")
	assert.Same(t, plain, wrapError(plain))
}
