// Package refiner decides between model and heuristic refinement.
package refiner

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/llmgate/promptrefiner/modelclient"
	"github.com/llmgate/promptrefiner/models"
)

type Strategy string

const (
	StrategyModel     Strategy = "model"
	StrategyHeuristic Strategy = "heuristic"
)

type ModelRefiner interface {
	Available() bool
	Refine(ctx context.Context, req models.RefinementRequest) modelclient.Outcome
}

type HeuristicRefiner interface {
	Refine(req models.RefinementRequest) models.RefinementResult
}

type Recorder interface {
	ObserveRefinement(strategy string, elapsed time.Duration)
	ModelFailure(category string)
}

// Report describes how a result was produced.
type Report struct {
	Result   models.RefinementResult
	Strategy Strategy
	// FellBack is set when the model was tried and failed.
	FellBack bool
	Failure  modelclient.Category
}

type Orchestrator struct {
	model          ModelRefiner
	modelAvailable bool
	heuristic      HeuristicRefiner
	recorder       Recorder
}

type Option func(*Orchestrator)

func WithRecorder(recorder Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = recorder
	}
}

// NewOrchestrator reads model availability once; it does not change afterwards.
func NewOrchestrator(model ModelRefiner, heuristic HeuristicRefiner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		model:          model,
		modelAvailable: model != nil && model.Available(),
		heuristic:      heuristic,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) ModelAvailable() bool {
	return o.modelAvailable
}

// Refine never fails: any model failure falls back to the heuristic refiner.
func (o *Orchestrator) Refine(ctx context.Context, req models.RefinementRequest) models.RefinementResult {
	return o.RefineDetailed(ctx, req).Result
}

func (o *Orchestrator) RefineDetailed(ctx context.Context, req models.RefinementRequest) Report {
	start := time.Now()
	req = req.Normalize()

	report := o.refine(ctx, req)

	if o.recorder != nil {
		if report.FellBack {
			o.recorder.ModelFailure(string(report.Failure))
		}
		o.recorder.ObserveRefinement(string(report.Strategy), time.Since(start))
	}
	return report
}

func (o *Orchestrator) refine(ctx context.Context, req models.RefinementRequest) Report {
	if !o.modelAvailable {
		log.Debug().Msg("model unavailable, using heuristic refinement")
		return Report{Result: o.heuristic.Refine(req), Strategy: StrategyHeuristic}
	}

	outcome := o.model.Refine(ctx, req)
	if outcome.OK() {
		return Report{Result: outcome.Result, Strategy: StrategyModel}
	}

	log.Warn().Err(outcome.Err).Str("category", string(outcome.Failure)).Msg("model refinement failed, falling back to heuristic refinement")
	return Report{
		Result:   o.heuristic.Refine(req),
		Strategy: StrategyHeuristic,
		FellBack: true,
		Failure:  outcome.Failure,
	}
}
