package agent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"adpilot/internal/collector"
	"adpilot/internal/contextbuilder"
	"adpilot/internal/llm"
)

// phase is a node of the pipeline state machine.
type phase int

const (
	phaseCollectContext phase = iota
	phaseAnalyzeSignals
	phaseGenerateRecommendation
	phaseCritique
	phaseFinalize
	phaseDone
)

// Config controls a pipeline's termination and timing policy.
type Config struct {
	// MaxIterations bounds critique-driven regenerations. The
	// recommendation stage runs at most MaxIterations+1 times.
	MaxIterations int
	// ConfidenceThreshold marks runs whose recommendation confidence
	// falls below it.
	ConfidenceThreshold float64
	// RunTimeout bounds one full run, zero meaning no bound.
	RunTimeout time.Duration
	// Model is recorded on recommendations for traceability.
	Model string
}

// DefaultConfig returns the standard pipeline policy.
func DefaultConfig() Config {
	return Config{
		MaxIterations:       3,
		ConfidenceThreshold: 0.6,
		RunTimeout:          60 * time.Second,
	}
}

// Agent runs the reasoning pipeline over campaign telemetry.
type Agent struct {
	config  Config
	logger  *zap.Logger
	builder *contextbuilder.Builder
	stages  *stageExecutor
}

// New creates an agent from an LLM client and a context builder.
func New(client llm.Client, builder *contextbuilder.Builder, cfg Config, logger *zap.Logger) *Agent {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	return &Agent{
		config:  cfg,
		logger:  logger,
		builder: builder,
		stages:  newStageExecutor(client, cfg.Model),
	}
}

// AnalyzeCampaign runs the full pipeline for a campaign and returns
// the result, complete or degraded. Stage failures are recorded in the
// result's error list rather than returned; the error return is
// reserved for being unable to start a run at all.
func (a *Agent) AnalyzeCampaign(ctx context.Context, campaignID string) (*RunResult, error) {
	return a.run(ctx, campaignID, nil)
}

// AnalyzeScenario runs the pipeline against a predefined scenario
// fixture instead of live collection.
func (a *Agent) AnalyzeScenario(ctx context.Context, scenarioName string) (*RunResult, error) {
	s, ok := collector.LookupScenario(scenarioName)
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", scenarioName)
	}
	return a.run(ctx, s.Campaign.CampaignID, &s)
}

func (a *Agent) run(ctx context.Context, campaignID string, scenario *collector.Scenario) (*RunResult, error) {
	if a.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.RunTimeout)
		defer cancel()
	}

	a.logger.Info("starting campaign analysis",
		zap.String("campaign_id", campaignID),
		zap.Bool("scenario", scenario != nil))

	state := newPipelineState(campaignID)
	state.Metadata["started_at"] = time.Now().Format(time.RFC3339)

	for current := phaseCollectContext; current != phaseDone; {
		switch current {
		case phaseCollectContext:
			current = a.collectContext(ctx, state, scenario)
		case phaseAnalyzeSignals:
			current = a.analyzeSignals(ctx, state)
		case phaseGenerateRecommendation:
			current = a.generateRecommendation(ctx, state)
		case phaseCritique:
			current = a.critique(ctx, state)
		case phaseFinalize:
			current = a.finalize(state)
		}
	}

	return &RunResult{
		CampaignID:     campaignID,
		Recommendation: state.Recommendation,
		Analysis:       state.Analysis,
		Critique:       state.Critique,
		Context:        state.Context,
		Metadata:       state.Metadata,
		Errors:         state.Errors,
	}, nil
}

// collectContext assembles campaign telemetry. Collection failure is
// fatal to the run: no partial context ever feeds the LLM stages.
func (a *Agent) collectContext(ctx context.Context, state *PipelineState, scenario *collector.Scenario) phase {
	a.logger.Info("collecting campaign context", zap.String("campaign_id", state.CampaignID))

	var cc contextbuilder.CampaignContext
	if scenario != nil {
		cc = contextbuilder.FromScenario(*scenario)
	} else {
		var err error
		cc, err = a.builder.Build(ctx, state.CampaignID)
		if err != nil {
			state.recordError(fmt.Sprintf("context collection failed: %v", err))
			return phaseFinalize
		}
	}

	state.Context = &cc
	state.ContextText = contextbuilder.Render(cc)
	state.Metadata["context_collection_ms"] = cc.CollectionTime.Milliseconds()
	return phaseAnalyzeSignals
}

// analyzeSignals derives the root-cause analysis. A failure here is
// fatal: generating a recommendation with no grounding analysis is
// worse than returning a degraded result.
func (a *Agent) analyzeSignals(ctx context.Context, state *PipelineState) phase {
	a.logger.Info("analyzing signals")

	text, analysis, err := a.stages.analyzeSignals(ctx, state.ContextText)
	if err != nil {
		a.logger.Error("signal analysis failed", zap.Error(err))
		state.recordError(err.Error())
		return phaseFinalize
	}

	state.Analysis = analysis
	state.AnalysisText = text
	state.appendExchange(analystSystemPrompt, "signal analysis request", text)
	return phaseGenerateRecommendation
}

func (a *Agent) generateRecommendation(ctx context.Context, state *PipelineState) phase {
	a.logger.Info("generating recommendation", zap.Int("iteration", state.Iteration))

	text, rec, err := a.stages.generateRecommendation(ctx, state.AnalysisText)
	if err != nil {
		a.logger.Error("recommendation generation failed", zap.Error(err))
		state.recordError(err.Error())
		return phaseFinalize
	}

	if rec.Confidence < a.config.ConfidenceThreshold {
		a.logger.Warn("recommendation confidence below threshold",
			zap.Float64("confidence", rec.Confidence),
			zap.Float64("threshold", a.config.ConfidenceThreshold))
		state.Metadata["low_confidence"] = true
	}

	state.Recommendation = rec
	state.RecommendationText = text
	state.appendExchange(strategistSystemPrompt, "recommendation request", text)
	return phaseCritique
}

// critique reviews the recommendation. It fails open: an unusable
// critique accepts the recommendation so the pipeline always
// terminates.
func (a *Agent) critique(ctx context.Context, state *PipelineState) phase {
	a.logger.Info("critiquing recommendation")

	text, critique, err := a.stages.critiqueRecommendation(ctx, state.RecommendationText)
	if err != nil {
		a.logger.Warn("critique failed, accepting recommendation", zap.Error(err))
		state.Critique = &CritiqueResult{
			IsSatisfactory:    true,
			OverallAssessment: "Critique failed, accepting recommendation",
		}
		return phaseFinalize
	}

	state.Critique = critique
	state.appendExchange(reviewerSystemPrompt, "critique request", text)

	if a.shouldRegenerate(state) {
		state.Iteration++
		return phaseGenerateRecommendation
	}
	return phaseFinalize
}

// shouldRegenerate applies the regeneration predicate: loop back only
// while under the iteration bound, and only when the critique is
// unsatisfactory with at least one critical issue.
func (a *Agent) shouldRegenerate(state *PipelineState) bool {
	if state.Iteration >= a.config.MaxIterations {
		a.logger.Warn("max iterations reached", zap.Int("iteration", state.Iteration))
		return false
	}
	critique := state.Critique
	if critique == nil || critique.IsSatisfactory {
		return false
	}
	if len(critique.CriticalIssues) > 0 {
		a.logger.Info("regenerating due to critical issues",
			zap.Strings("issues", critique.CriticalIssues))
		return true
	}
	return false
}

func (a *Agent) finalize(state *PipelineState) phase {
	a.logger.Info("finalizing recommendation",
		zap.Int("total_iterations", state.Iteration),
		zap.Int("errors", len(state.Errors)))

	state.Metadata["completed_at"] = time.Now().Format(time.RFC3339)
	state.Metadata["total_iterations"] = state.Iteration
	return phaseDone
}
