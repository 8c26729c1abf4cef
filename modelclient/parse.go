package modelclient

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/llmgate/promptrefiner/models"
	"github.com/llmgate/promptrefiner/utils"
)

const FallbackRationale = "Refined using the language model with prompt engineering best practices."

type wireResult struct {
	RefinedPrompt *string `json:"refined_prompt"`
	Rationale     *string `json:"rationale"`
}

// ParseResponse decodes {refined_prompt, rationale} from raw model text. When the text is not a
// usable object it returns the raw text with FallbackRationale and structured=false.
// The caller must not pass blank text.
func ParseResponse(raw string) (result models.RefinementResult, structured bool) {
	cleaned := utils.StripCodeFence(raw)

	if parsed, ok := decode(cleaned); ok {
		return parsed, true
	}
	if strings.HasPrefix(cleaned, "{") {
		if repaired, err := jsonrepair.JSONRepair(cleaned); err == nil {
			if parsed, ok := decode(repaired); ok {
				return parsed, true
			}
		}
	}

	return models.RefinementResult{
		RefinedPrompt: strings.TrimSpace(raw),
		Rationale:     FallbackRationale,
	}, false
}

func decode(text string) (models.RefinementResult, bool) {
	var wire wireResult
	if err := json.Unmarshal([]byte(text), &wire); err != nil {
		return models.RefinementResult{}, false
	}
	if wire.RefinedPrompt == nil || wire.Rationale == nil {
		return models.RefinementResult{}, false
	}
	refined := strings.TrimSpace(*wire.RefinedPrompt)
	rationale := strings.TrimSpace(*wire.Rationale)
	if refined == "" || rationale == "" {
		return models.RefinementResult{}, false
	}
	return models.RefinementResult{RefinedPrompt: refined, Rationale: rationale}, true
}
