// Package modelclient refines prompts through an external text generation API.
package modelclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/llmgate/promptrefiner/claude"
	"github.com/llmgate/promptrefiner/gemini"
	"github.com/llmgate/promptrefiner/internal/config"
	"github.com/llmgate/promptrefiner/langdetect"
	"github.com/llmgate/promptrefiner/mockllm"
	"github.com/llmgate/promptrefiner/models"
	"github.com/llmgate/promptrefiner/openai"
)

const (
	DefaultTimeout         = 20 * time.Second
	DefaultTemperature     = 0.3
	DefaultMaxOutputTokens = 2000
)

// Generator is a single-shot text generation backend.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (string, error)
	Close() error
}

type Options struct {
	Provider        string
	Temperature     float32
	MaxOutputTokens int
	Timeout         time.Duration
}

// Client is safe for concurrent use. Availability is fixed when it is built.
type Client struct {
	generator Generator
	available bool
	opts      Options
}

// New returns an available client backed by generator.
func New(generator Generator, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = DefaultMaxOutputTokens
	}
	return &Client{
		generator: generator,
		available: generator != nil,
		opts:      opts,
	}
}

// Unavailable returns a client that reports Available() == false for its whole lifetime.
func Unavailable(provider string) *Client {
	return &Client{opts: Options{Provider: provider}}
}

// NewFromConfig builds the configured provider. A blank credential or a failed SDK
// initialization yields an unavailable client rather than an error.
func NewFromConfig(ctx context.Context, cfg config.LLMConfigs) *Client {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	opts := Options{
		Provider:        provider,
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
		Timeout:         cfg.Timeout,
	}

	generator, err := newGenerator(ctx, provider, cfg)
	if err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("model refinement disabled, using heuristic refinement only")
		return Unavailable(provider)
	}
	log.Info().Str("provider", provider).Msg("model refinement enabled")
	return New(generator, opts)
}

func newGenerator(ctx context.Context, provider string, cfg config.LLMConfigs) (Generator, error) {
	switch provider {
	case "gemini":
		if strings.TrimSpace(cfg.Gemini.Key) == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set: %w", ErrUnavailable)
		}
		return gemini.NewGeminiClient(ctx, cfg.Gemini)
	case "openai":
		if strings.TrimSpace(cfg.OpenAI.Key) == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set: %w", ErrUnavailable)
		}
		return openai.NewOpenAIClient(cfg.OpenAI), nil
	case "claude":
		if strings.TrimSpace(cfg.Claude.Key) == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set: %w", ErrUnavailable)
		}
		return claude.NewClaudeClient(cfg.Claude), nil
	case "mock":
		return mockllm.NewMockLLMClient(), nil
	case "", "none", "heuristic":
		return nil, fmt.Errorf("no provider configured: %w", ErrUnavailable)
	default:
		return nil, fmt.Errorf("unknown provider %q: %w", provider, ErrUnavailable)
	}
}

func (c *Client) Available() bool {
	return c.available
}

func (c *Client) Provider() string {
	return c.opts.Provider
}

func (c *Client) Close() error {
	if c.generator == nil {
		return nil
	}
	return c.generator.Close()
}

// Refine makes one bounded call to the provider. Malformed responses are recovered into a
// result; only call failures come back as a failed Outcome.
func (c *Client) Refine(ctx context.Context, req models.RefinementRequest) Outcome {
	if !c.available {
		return failure(ErrUnavailable)
	}

	req = req.Normalize()
	language := langdetect.Detect(req.OriginalPrompt)
	log.Debug().Str("provider", c.opts.Provider).Str("language", language).Msg("refining with model")

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	text, err := c.generator.Generate(ctx, models.GenerationRequest{
		System:          BuildInstruction(req, language),
		Prompt:          userMessage(req.OriginalPrompt),
		Temperature:     c.opts.Temperature,
		MaxOutputTokens: c.opts.MaxOutputTokens,
	})
	if err != nil {
		return failure(fmt.Errorf("%s: %w", c.opts.Provider, err))
	}
	if strings.TrimSpace(text) == "" {
		return failure(fmt.Errorf("%s: %w", c.opts.Provider, ErrEmptyResponse))
	}

	result, structured := ParseResponse(text)
	if !structured {
		log.Debug().Str("provider", c.opts.Provider).Msg("model response was not structured, returning raw text")
	}
	return success(result, structured)
}
