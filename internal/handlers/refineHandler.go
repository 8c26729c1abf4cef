package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/llmgate/promptrefiner/internal/utils"
	"github.com/llmgate/promptrefiner/models"
	"github.com/llmgate/promptrefiner/refiner"
	"github.com/llmgate/promptrefiner/session"
)

const strategyHeaderKey = "X-Refinement-Strategy"

type Refiner interface {
	RefineDetailed(ctx context.Context, req models.RefinementRequest) refiner.Report
	ModelAvailable() bool
}

type RefineHandler struct {
	refiner Refiner
	store   *session.Store
	now     func() time.Time
}

func NewRefineHandler(refiner Refiner, store *session.Store) *RefineHandler {
	return &RefineHandler{
		refiner: refiner,
		store:   store,
		now:     time.Now,
	}
}

// refineForm accepts both form posts and JSON bodies.
type refineForm struct {
	Prompt           string   `form:"prompt" json:"prompt"`
	AITools          []string `form:"ai_tools" json:"ai_tools"`
	PromptTechniques []string `form:"prompt_techniques" json:"prompt_techniques"`
	CustomTechniques string   `form:"custom_techniques" json:"custom_techniques"`
}

func (h *RefineHandler) Refine(c *gin.Context) {
	var form refineForm
	if err := c.ShouldBind(&form); err != nil {
		utils.ProcessGenericBadRequest(c)
		return
	}

	req, err := models.NewRefinementRequest(form.Prompt, form.AITools, form.PromptTechniques, form.CustomTechniques)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			utils.ProcessBadRequest(c, validationErr.Message)
			return
		}
		utils.ProcessGenericBadRequest(c)
		return
	}

	report := h.refiner.RefineDetailed(c.Request.Context(), req)

	h.store.SaveLastRefined(currentSession(c).ID, models.LastRefinedRecord{
		Original:  req.OriginalPrompt,
		Refined:   report.Result.RefinedPrompt,
		Rationale: report.Result.Rationale,
		Timestamp: h.now(),
	})

	c.Header(strategyHeaderKey, string(report.Strategy))
	c.JSON(http.StatusOK, report.Result)
}

func (h *RefineHandler) Download(c *gin.Context) {
	record, ok := h.store.LastRefined(currentSession(c).ID)
	if !ok {
		c.String(http.StatusNotFound, "No refined prompt available")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, session.DownloadFilename(h.now())))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(session.FormatDownload(record)))
}
