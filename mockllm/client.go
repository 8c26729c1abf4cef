// Package mockllm is an offline text generation backend for local development and tests.
package mockllm

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/llmgate/promptrefiner/models"
)

// Response is one scripted answer. Delay is honoured against the caller's context.
type Response struct {
	Text  string
	Err   error
	Delay time.Duration
}

type MockLLMClient struct {
	mu        sync.Mutex
	responses []Response
	calls     []models.GenerationRequest
}

// NewMockLLMClient replays responses in order, then falls back to a canned refinement.
func NewMockLLMClient(responses ...Response) *MockLLMClient {
	return &MockLLMClient{responses: responses}
}

func (c *MockLLMClient) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, req)
	var next *Response
	if len(c.responses) > 0 {
		next = &c.responses[0]
		c.responses = c.responses[1:]
	}
	c.mu.Unlock()

	if next == nil {
		return cannedResponse(req), nil
	}

	if next.Delay > 0 {
		timer := time.NewTimer(next.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return next.Text, next.Err
}

// Calls returns a copy of every request received so far.
func (c *MockLLMClient) Calls() []models.GenerationRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.GenerationRequest(nil), c.calls...)
}

func (c *MockLLMClient) Close() error {
	return nil
}

func cannedResponse(req models.GenerationRequest) string {
	body, _ := json.Marshal(models.RefinementResult{
		RefinedPrompt: "**Role:** You are a knowledgeable assistant.\n\n**Task:** " + req.Prompt,
		Rationale:     "Mock refinement: wrapped the prompt with a role and task section.",
	})
	return string(body)
}
