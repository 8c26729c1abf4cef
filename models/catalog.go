package models

type Tool string

const (
	ToolChatGPT     Tool = "chatgpt"
	ToolGemini      Tool = "gemini"
	ToolClaude      Tool = "claude"
	ToolPerplexity  Tool = "perplexity"
	ToolCopilot     Tool = "copilot"
	ToolUnspecified Tool = "unspecified"
)

type Technique string

const (
	TechniqueChainOfThought    Technique = "chain_of_thought"
	TechniqueTreeOfThought     Technique = "tree_of_thought"
	TechniqueOneShot           Technique = "one_shot"
	TechniqueFewShot           Technique = "few_shot"
	TechniqueSelfConsistency   Technique = "self_consistency"
	TechniqueInstructReasoning Technique = "instruct_reasoning"
	TechniqueInstructSearch    Technique = "instruct_search"
	TechniqueAuto              Technique = "auto"
)

// Tools lists every tool value in enumeration order.
var Tools = []Tool{ToolChatGPT, ToolGemini, ToolClaude, ToolPerplexity, ToolCopilot, ToolUnspecified}

// GuidedTools are the tools that have optimization guidance.
var GuidedTools = []Tool{ToolChatGPT, ToolGemini, ToolClaude, ToolPerplexity, ToolCopilot}

// Techniques lists every technique value in enumeration order.
var Techniques = []Technique{
	TechniqueChainOfThought,
	TechniqueTreeOfThought,
	TechniqueOneShot,
	TechniqueFewShot,
	TechniqueSelfConsistency,
	TechniqueInstructReasoning,
	TechniqueInstructSearch,
	TechniqueAuto,
}

// HeuristicTechniques are the techniques the rule-based refiner can express in the prompt itself.
var HeuristicTechniques = []Technique{
	TechniqueChainOfThought,
	TechniqueTreeOfThought,
	TechniqueOneShot,
	TechniqueFewShot,
	TechniqueSelfConsistency,
}

var toolDisplayNames = map[Tool]string{
	ToolChatGPT:     "ChatGPT",
	ToolGemini:      "Gemini",
	ToolClaude:      "Claude",
	ToolPerplexity:  "Perplexity",
	ToolCopilot:     "Copilot",
	ToolUnspecified: "Unspecified",
}

var techniqueDisplayNames = map[Technique]string{
	TechniqueChainOfThought:    "Chain-of-Thought",
	TechniqueTreeOfThought:     "Tree-of-Thought",
	TechniqueOneShot:           "One-Shot",
	TechniqueFewShot:           "Few-Shot",
	TechniqueSelfConsistency:   "Self-Consistency",
	TechniqueInstructReasoning: "Instruct Explicit Reasoning",
	TechniqueInstructSearch:    "Instruct Search for Current Info",
	TechniqueAuto:              "Auto",
}

// DisplayName returns the human readable tool name, or the raw value for unknown tools.
func (t Tool) DisplayName() string {
	if name, ok := toolDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

func (t Tool) Known() bool {
	_, ok := toolDisplayNames[t]
	return ok
}

func (t Technique) DisplayName() string {
	if name, ok := techniqueDisplayNames[t]; ok {
		return name
	}
	return string(t)
}

func (t Technique) Known() bool {
	_, ok := techniqueDisplayNames[t]
	return ok
}

func ToolNames(tools []Tool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.DisplayName())
	}
	return names
}

func TechniqueNames(techniques []Technique) []string {
	names := make([]string, 0, len(techniques))
	for _, t := range techniques {
		names = append(names, t.DisplayName())
	}
	return names
}
