package refiner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmgate/promptrefiner/heuristic"
	"github.com/llmgate/promptrefiner/mockllm"
	"github.com/llmgate/promptrefiner/modelclient"
	"github.com/llmgate/promptrefiner/models"
)

type fakeModel struct {
	available bool
	outcome   modelclient.Outcome
	calls     int
}

func (f *fakeModel) Available() bool { return f.available }

func (f *fakeModel) Refine(ctx context.Context, req models.RefinementRequest) modelclient.Outcome {
	f.calls++
	return f.outcome
}

type fakeRecorder struct {
	mu         sync.Mutex
	strategies []string
	failures   []string
}

func (r *fakeRecorder) ObserveRefinement(strategy string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies = append(r.strategies, strategy)
}

func (r *fakeRecorder) ModelFailure(category string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, category)
}

var sampleRequest = models.RefinementRequest{
	OriginalPrompt: "Write a poem about the sea.",
	Tools:          []models.Tool{models.ToolGemini},
	Techniques:     []models.Technique{models.TechniqueFewShot},
}

func TestUnavailableModelMatchesHeuristicExactly(t *testing.T) {
	model := &fakeModel{available: false}
	o := NewOrchestrator(model, heuristic.NewRefiner())

	got := o.Refine(context.Background(), sampleRequest)
	want := heuristic.NewRefiner().Refine(sampleRequest)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Refine() mismatch (-heuristic +orchestrator):\n%s", diff)
	}
	assert.Zero(t, model.calls)
}

func TestModelSuccess(t *testing.T) {
	result := models.RefinementResult{RefinedPrompt: "better", Rationale: "because"}
	model := &fakeModel{available: true, outcome: modelclient.Outcome{Result: result, Structured: true}}
	recorder := &fakeRecorder{}
	o := NewOrchestrator(model, heuristic.NewRefiner(), WithRecorder(recorder))

	report := o.RefineDetailed(context.Background(), sampleRequest)
	assert.Equal(t, result, report.Result)
	assert.Equal(t, StrategyModel, report.Strategy)
	assert.False(t, report.FellBack)
	assert.Equal(t, []string{"model"}, recorder.strategies)
	assert.Empty(t, recorder.failures)
}

func TestModelFailureFallsBack(t *testing.T) {
	model := &fakeModel{available: true, outcome: modelclient.Outcome{Failure: modelclient.CategoryQuota, Err: errors.New("quota exceeded")}}
	recorder := &fakeRecorder{}
	o := NewOrchestrator(model, heuristic.NewRefiner(), WithRecorder(recorder))

	report := o.RefineDetailed(context.Background(), sampleRequest)
	assert.Equal(t, heuristic.NewRefiner().Refine(sampleRequest), report.Result)
	assert.Equal(t, StrategyHeuristic, report.Strategy)
	assert.True(t, report.FellBack)
	assert.Equal(t, modelclient.CategoryQuota, report.Failure)
	assert.Equal(t, 1, model.calls)
	assert.Equal(t, []string{"quota"}, recorder.failures)
	assert.Equal(t, []string{"heuristic"}, recorder.strategies)
}

func TestAvailabilityReadOnce(t *testing.T) {
	model := &fakeModel{available: false}
	o := NewOrchestrator(model, heuristic.NewRefiner())
	model.available = true

	assert.False(t, o.ModelAvailable())
	o.Refine(context.Background(), sampleRequest)
	assert.Zero(t, model.calls)
}

func TestNilModel(t *testing.T) {
	o := NewOrchestrator(nil, heuristic.NewRefiner())
	got := o.Refine(context.Background(), models.RefinementRequest{OriginalPrompt: "x"})
	assert.NotEmpty(t, got.RefinedPrompt)
	assert.NotEmpty(t, got.Rationale)
}

func TestTotalityWithRealModelClient(t *testing.T) {
	mock := mockllm.NewMockLLMClient(
		mockllm.Response{Text: `{"refined_prompt": "from model", "rationale": "ok"}`},
		mockllm.Response{Text: "plain words"},
		mockllm.Response{Text: ""},
		mockllm.Response{Err: errors.New("connection refused")},
		mockllm.Response{Text: "slow", Delay: time.Second},
	)
	client := modelclient.New(mock, modelclient.Options{Provider: "mock", Timeout: 20 * time.Millisecond})
	o := NewOrchestrator(client, heuristic.NewRefiner())

	wantStrategies := []Strategy{StrategyModel, StrategyModel, StrategyHeuristic, StrategyHeuristic, StrategyHeuristic}
	for i, want := range wantStrategies {
		report := o.RefineDetailed(context.Background(), sampleRequest)
		require.NotEmpty(t, report.Result.RefinedPrompt, "call %d", i)
		require.NotEmpty(t, report.Result.Rationale, "call %d", i)
		assert.Equal(t, want, report.Strategy, "call %d", i)
	}
}
