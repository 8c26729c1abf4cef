package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/llmgate/promptrefiner/models"
)

type catalogEntry struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

type IndexHandler struct {
	refiner  Refiner
	provider string
}

func NewIndexHandler(refiner Refiner, provider string) *IndexHandler {
	return &IndexHandler{
		refiner:  refiner,
		provider: provider,
	}
}

// Index describes the service and the selectable tools and techniques.
func (h *IndexHandler) Index(c *gin.Context) {
	tools := make([]catalogEntry, 0, len(models.Tools))
	for _, t := range models.Tools {
		tools = append(tools, catalogEntry{Value: string(t), Name: t.DisplayName()})
	}
	techniques := make([]catalogEntry, 0, len(models.Techniques))
	for _, t := range models.Techniques {
		techniques = append(techniques, catalogEntry{Value: string(t), Name: t.DisplayName()})
	}

	c.JSON(http.StatusOK, gin.H{
		"service":           "promptrefiner",
		"model_available":   h.refiner.ModelAvailable(),
		"provider":          h.provider,
		"max_prompt_length": models.MaxPromptLength,
		"tools":             tools,
		"techniques":        techniques,
	})
}
