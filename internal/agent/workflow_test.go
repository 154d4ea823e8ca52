package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpilot/internal/contextbuilder"
)

func testAgent(t *testing.T, mock *MockLLMClient, cfg Config) *Agent {
	t.Helper()
	builder := contextbuilder.NewBuilderSeeded(contextbuilder.DefaultBuilderConfig(), nil, 11)
	return New(mock, builder, cfg, nil)
}

func TestRunCompletesOnSatisfactoryCritique(t *testing.T) {
	mock := &MockLLMClient{
		AnalyzeFunc:   func(int) (string, error) { return sampleAnalysisResponse, nil },
		RecommendFunc: func(int) (string, error) { return sampleRecommendationResponse, nil },
		CritiqueFunc:  func(int) (string, error) { return satisfactoryCritiqueResponse, nil },
	}
	a := testAgent(t, mock, DefaultConfig())

	result, err := a.AnalyzeScenario(context.Background(), "competitive_pressure")
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	assert.Equal(t, "demo_competitive_pressure", result.CampaignID)
	require.NotNil(t, result.Recommendation)
	assert.Equal(t, WorkflowBidAdjustment, result.Recommendation.RecommendedWorkflow)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, "Competitive pressure in the auction", result.Analysis.RootCause)
	require.NotNil(t, result.Critique)
	assert.True(t, result.Critique.IsSatisfactory)

	assert.Equal(t, 1, mock.AnalyzeCalls)
	assert.Equal(t, 1, mock.RecommendCalls)
	assert.Equal(t, 1, mock.CritiqueCalls)
	assert.Equal(t, 0, result.Metadata["total_iterations"])
	assert.Contains(t, result.Metadata, "completed_at")
}

func TestRunRegeneratesOnCriticalIssues(t *testing.T) {
	// First two critiques flag a critical issue, third accepts.
	mock := &MockLLMClient{
		AnalyzeFunc:   func(int) (string, error) { return sampleAnalysisResponse, nil },
		RecommendFunc: func(int) (string, error) { return sampleRecommendationResponse, nil },
		CritiqueFunc: func(call int) (string, error) {
			if call <= 2 {
				return criticalCritiqueResponse, nil
			}
			return satisfactoryCritiqueResponse, nil
		},
	}
	a := testAgent(t, mock, Config{MaxIterations: 3})

	result, err := a.AnalyzeScenario(context.Background(), "creative_fatigue")
	require.NoError(t, err)

	assert.Equal(t, 1, mock.AnalyzeCalls) // analysis is never re-derived
	assert.Equal(t, 3, mock.RecommendCalls)
	assert.Equal(t, 3, mock.CritiqueCalls)
	assert.Equal(t, 2, result.Metadata["total_iterations"])
	assert.True(t, result.Critique.IsSatisfactory)
	assert.Empty(t, result.Errors)
}

func TestRunTerminatesAtMaxIterations(t *testing.T) {
	// Every critique demands regeneration; the bound must stop it.
	mock := &MockLLMClient{
		AnalyzeFunc:   func(int) (string, error) { return sampleAnalysisResponse, nil },
		RecommendFunc: func(int) (string, error) { return sampleRecommendationResponse, nil },
		CritiqueFunc:  func(int) (string, error) { return criticalCritiqueResponse, nil },
	}
	a := testAgent(t, mock, Config{MaxIterations: 2})

	result, err := a.AnalyzeScenario(context.Background(), "multi_signal_problem")
	require.NoError(t, err)

	// Exactly 2 regenerations: max_iterations+1 recommendation calls,
	// then finalize regardless of the last critique's content.
	assert.Equal(t, 3, mock.RecommendCalls)
	assert.Equal(t, 3, mock.CritiqueCalls)
	assert.Equal(t, 2, result.Metadata["total_iterations"])
	require.NotNil(t, result.Recommendation)
	assert.False(t, result.Critique.IsSatisfactory)
	assert.Empty(t, result.Errors)
}

func TestRunNoRegenerationWithoutCriticalIssues(t *testing.T) {
	// Unsatisfactory but no critical issues: finalize, don't loop.
	mock := &MockLLMClient{
		AnalyzeFunc:   func(int) (string, error) { return sampleAnalysisResponse, nil },
		RecommendFunc: func(int) (string, error) { return sampleRecommendationResponse, nil },
		CritiqueFunc: func(int) (string, error) {
			return "**Is Satisfactory:** no\n\n**Issues Found:**\n- major: Timeline is vague\n\n**Overall Assessment:** Weak but workable\n", nil
		},
	}
	a := testAgent(t, mock, DefaultConfig())

	result, err := a.AnalyzeScenario(context.Background(), "winning_campaign")
	require.NoError(t, err)

	assert.Equal(t, 1, mock.RecommendCalls)
	assert.Equal(t, 0, result.Metadata["total_iterations"])
	assert.False(t, result.Critique.IsSatisfactory)
}

func TestRunAnalysisFailureIsFatal(t *testing.T) {
	mock := &MockLLMClient{
		AnalyzeFunc: func(int) (string, error) { return "", errors.New("model unavailable") },
	}
	a := testAgent(t, mock, DefaultConfig())

	result, err := a.AnalyzeScenario(context.Background(), "competitive_pressure")
	require.NoError(t, err)

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "signal analysis failed")
	assert.Nil(t, result.Analysis)
	assert.Nil(t, result.Recommendation)
	// The recommendation stage must never run on an absent analysis.
	assert.Equal(t, 0, mock.RecommendCalls)
	assert.Equal(t, 0, mock.CritiqueCalls)
	assert.Contains(t, result.Metadata, "completed_at")
}

func TestRunRecommendationFailureDegrades(t *testing.T) {
	mock := &MockLLMClient{
		AnalyzeFunc:   func(int) (string, error) { return sampleAnalysisResponse, nil },
		RecommendFunc: func(int) (string, error) { return "", errors.New("rate limited") },
	}
	a := testAgent(t, mock, DefaultConfig())

	result, err := a.AnalyzeScenario(context.Background(), "competitive_pressure")
	require.NoError(t, err)

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "recommendation generation failed")
	assert.NotNil(t, result.Analysis) // partial state survives
	assert.Nil(t, result.Recommendation)
	assert.Equal(t, 0, mock.CritiqueCalls)
}

func TestRunCritiqueFailureAcceptsRecommendation(t *testing.T) {
	mock := &MockLLMClient{
		AnalyzeFunc:   func(int) (string, error) { return sampleAnalysisResponse, nil },
		RecommendFunc: func(int) (string, error) { return sampleRecommendationResponse, nil },
		CritiqueFunc:  func(int) (string, error) { return "", errors.New("timeout") },
	}
	a := testAgent(t, mock, DefaultConfig())

	result, err := a.AnalyzeScenario(context.Background(), "competitive_pressure")
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Critique)
	assert.True(t, result.Critique.IsSatisfactory)
	assert.Equal(t, "Critique failed, accepting recommendation", result.Critique.OverallAssessment)
	require.NotNil(t, result.Recommendation)
	assert.Equal(t, 1, mock.RecommendCalls)
}

func TestRunCollectionFailureShortCircuits(t *testing.T) {
	mock := &MockLLMClient{}
	a := testAgent(t, mock, Config{MaxIterations: 3, RunTimeout: 0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := a.AnalyzeCampaign(ctx, "camp_dead")
	require.NoError(t, err)

	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "context collection failed")
	assert.Nil(t, result.Context)
	assert.Nil(t, result.Analysis)
	assert.Nil(t, result.Recommendation)
	assert.Equal(t, 0, mock.AnalyzeCalls)
}

func TestAnalyzeScenarioUnknownName(t *testing.T) {
	a := testAgent(t, &MockLLMClient{}, DefaultConfig())

	_, err := a.AnalyzeScenario(context.Background(), "does_not_exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scenario")
}

func TestAnalyzeCampaignWithLiveCollectors(t *testing.T) {
	mock := &MockLLMClient{
		AnalyzeFunc:   func(int) (string, error) { return sampleAnalysisResponse, nil },
		RecommendFunc: func(int) (string, error) { return sampleRecommendationResponse, nil },
		CritiqueFunc:  func(int) (string, error) { return satisfactoryCritiqueResponse, nil },
	}
	builder := contextbuilder.NewBuilderSeeded(contextbuilder.DefaultBuilderConfig(), nil, 11)
	a := New(mock, builder, DefaultConfig(), nil)

	result, err := a.AnalyzeCampaign(context.Background(), "camp_transcript")
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Context)
	assert.Equal(t, "camp_transcript", result.Context.CampaignID)
}
