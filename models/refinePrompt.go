package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxPromptLength = 5000

type RefinementRequest struct {
	OriginalPrompt   string      `json:"original_prompt"`
	Tools            []Tool      `json:"tools"`
	Techniques       []Technique `json:"techniques"`
	CustomTechniques string      `json:"custom_techniques,omitempty"`
}

type RefinementResult struct {
	RefinedPrompt string `json:"refined_prompt"`
	Rationale     string `json:"rationale"`
}

// PromptAnalysis records which structural markers a prompt already carries.
type PromptAnalysis struct {
	HasRole           bool
	HasClearObjective bool
	HasConstraints    bool
	HasOutputFormat   bool
	HasExamples       bool
}

// LastRefinedRecord is the per-session copy of the latest refinement, served by the download endpoint.
type LastRefinedRecord struct {
	Original  string    `json:"original"`
	Refined   string    `json:"refined"`
	Rationale string    `json:"rationale"`
	Timestamp time.Time `json:"timestamp"`
}

// GenerationRequest is the provider-neutral payload handed to a text generation backend.
type GenerationRequest struct {
	System          string
	Prompt          string
	Temperature     float32
	MaxOutputTokens int
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewRefinementRequest trims and bounds-checks the raw prompt and normalizes the selections.
func NewRefinementRequest(prompt string, tools, techniques []string, custom string) (RefinementRequest, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return RefinementRequest{}, &ValidationError{Message: "Please provide a prompt to refine"}
	}
	if utf8.RuneCountInString(prompt) > MaxPromptLength {
		return RefinementRequest{}, &ValidationError{Message: "Prompt too long (max 5000 characters)"}
	}

	req := RefinementRequest{
		OriginalPrompt:   prompt,
		CustomTechniques: strings.TrimSpace(custom),
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, Tool(t))
	}
	for _, t := range techniques {
		req.Techniques = append(req.Techniques, Technique(t))
	}
	return req.Normalize(), nil
}

// Normalize dedups selections keeping the first occurrence and drops unknown techniques.
// Unknown tools are kept. Empty sets become {auto} and {unspecified}.
func (r RefinementRequest) Normalize() RefinementRequest {
	out := RefinementRequest{
		OriginalPrompt:   r.OriginalPrompt,
		CustomTechniques: strings.TrimSpace(r.CustomTechniques),
	}

	seenTools := make(map[Tool]bool)
	for _, t := range r.Tools {
		t = Tool(strings.ToLower(strings.TrimSpace(string(t))))
		if t == "" || seenTools[t] {
			continue
		}
		seenTools[t] = true
		out.Tools = append(out.Tools, t)
	}
	if len(out.Tools) == 0 {
		out.Tools = []Tool{ToolUnspecified}
	}

	seenTechniques := make(map[Technique]bool)
	for _, t := range r.Techniques {
		t = Technique(strings.ToLower(strings.TrimSpace(string(t))))
		if !t.Known() || seenTechniques[t] {
			continue
		}
		seenTechniques[t] = true
		out.Techniques = append(out.Techniques, t)
	}
	if len(out.Techniques) == 0 {
		out.Techniques = []Technique{TechniqueAuto}
	}

	return out
}

func (r RefinementRequest) HasTechnique(t Technique) bool {
	for _, selected := range r.Techniques {
		if selected == t {
			return true
		}
	}
	return false
}

func (r RefinementRequest) HasTool(t Tool) bool {
	for _, selected := range r.Tools {
		if selected == t {
			return true
		}
	}
	return false
}

// OnlyAuto reports whether the technique selection is exactly {auto}.
func (r RefinementRequest) OnlyAuto() bool {
	return len(r.Techniques) == 1 && r.Techniques[0] == TechniqueAuto
}

// SelectedKnownTools returns the selected tools that carry guidance, in catalog order.
func (r RefinementRequest) SelectedKnownTools() []Tool {
	var tools []Tool
	for _, t := range GuidedTools {
		if r.HasTool(t) {
			tools = append(tools, t)
		}
	}
	return tools
}

// SelectedTechniques returns the selected techniques from the given catalog, in catalog order.
func (r RefinementRequest) SelectedTechniques(catalog []Technique) []Technique {
	var techniques []Technique
	for _, t := range catalog {
		if r.HasTechnique(t) {
			techniques = append(techniques, t)
		}
	}
	return techniques
}
