package modelclient

import (
	"fmt"
	"strings"

	"github.com/llmgate/promptrefiner/models"
)

const bestPractices = `You are an expert prompt engineer. Refine the user's prompt so that it follows prompt engineering best practices:

1. Clear role definition
2. Specific objective
3. Clear constraints and requirements
4. Step-by-step guidance when needed
5. Structured output format
6. Examples when helpful
7. Brief self-check criteria`

const defaultMetaInstruction = "Meta-instruction: If the prompt requires current facts or examples, the refined prompt should instruct the model to search for them. If it requires structured problem-solving, it should instruct the model to reason step by step. If it is simple, refine it directly."

const (
	reasoningMandate = "The refined prompt MUST explicitly instruct the model to reason step by step and to show its reasoning before giving the final answer."
	searchMandate    = "The refined prompt MUST explicitly instruct the model to search for current, up-to-date information and to cite its sources."
)

const outputContract = `Return your response as a JSON object with exactly two string fields:
{"refined_prompt": "<the refined prompt>", "rationale": "<why these changes were made>"}
Keep the rationale concise (2-3 sentences max). Do not wrap the JSON in code fences.`

// BuildInstruction assembles the system instruction for a normalized request.
func BuildInstruction(req models.RefinementRequest, language string) string {
	parts := []string{bestPractices}

	if techniques := req.SelectedTechniques(models.Techniques); len(techniques) > 0 && !req.OnlyAuto() {
		var named []models.Technique
		for _, t := range techniques {
			if t != models.TechniqueAuto {
				named = append(named, t)
			}
		}
		parts = append(parts, fmt.Sprintf("Apply the following prompting techniques in the refined prompt: %s.",
			strings.Join(models.TechniqueNames(named), ", ")))
	}

	if req.CustomTechniques != "" {
		parts = append(parts, fmt.Sprintf("Also incorporate these custom techniques requested by the user: %s", req.CustomTechniques))
	}

	if tools := req.SelectedKnownTools(); len(tools) > 0 {
		parts = append(parts, fmt.Sprintf("Optimize the refined prompt for use with %s, following that tool's prompting conventions.",
			strings.Join(models.ToolNames(tools), ", ")))
	}

	parts = append(parts, fmt.Sprintf(`The user's prompt appears to be written in %s. End the refined prompt with the sentence "Please answer in %s."`, language, language))

	meta := defaultMetaInstruction
	if req.HasTechnique(models.TechniqueInstructReasoning) {
		meta += "\n" + reasoningMandate
	}
	if req.HasTechnique(models.TechniqueInstructSearch) {
		meta += "\n" + searchMandate
	}
	parts = append(parts, meta, outputContract)

	return strings.Join(parts, "\n\n")
}

func userMessage(prompt string) string {
	return "Please refine this prompt following best practices:\n\n" + prompt
}
