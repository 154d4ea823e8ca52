package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adpilot/internal/agent"
	"adpilot/internal/collector"
	"adpilot/internal/contextbuilder"
)

func openTestStore(t *testing.T) *RecommendationStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "adpilot.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(t *testing.T) Record {
	t.Helper()
	scenario, ok := collector.LookupScenario("competitive_pressure")
	require.True(t, ok)
	cc := contextbuilder.FromScenario(scenario)

	return Record{
		CampaignID:      cc.CampaignID,
		Workflow:        agent.WorkflowBidAdjustment,
		Reasoning:       "Auction pressure is driving CPA, not creative decay",
		SpecificActions: "Increase bids by 15% on top ad groups",
		ExpectedImpact:  "CPA stabilizes within 10% of prior period",
		RiskLevel:       agent.RiskMedium,
		Confidence:      0.8,
		Timeline:        "5-7 days",
		SuccessCriteria: "CPA under $70",
		SignalAnalysis:  "raw analysis text",
		RootCause:       "Competitive pressure in the auction",
		Context:         &cc,
		Alternatives: []agent.AlternativeAction{
			{Workflow: agent.WorkflowBudgetReallocation, WhyNotRecommended: "does not address auction dynamics"},
		},
		ModelVersion:    "test-model",
		TotalIterations: 1,
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, sampleRecord(t))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, "demo_competitive_pressure", got.CampaignID)
	assert.Equal(t, agent.WorkflowBidAdjustment, got.Workflow)
	assert.Equal(t, agent.RiskMedium, got.RiskLevel)
	assert.InDelta(t, 0.8, got.Confidence, 1e-9)
	assert.Equal(t, DecisionPending, got.Decision)
	assert.Nil(t, got.DecidedAt)
	assert.Equal(t, 1, got.TotalIterations)
	assert.False(t, got.CreatedAt.IsZero())

	require.NotNil(t, got.Context)
	assert.Equal(t, "Spring Sale 2026 - Premium Products", got.Context.Campaign.CampaignName)
	require.Len(t, got.Alternatives, 1)
	assert.Equal(t, agent.WorkflowBudgetReallocation, got.Alternatives[0].Workflow)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)

	_, err := s.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecide(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, sampleRecord(t))
	require.NoError(t, err)

	require.NoError(t, s.Decide(ctx, id, DecisionApproved, "ship it"))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, DecisionApproved, got.Decision)
	assert.Equal(t, "ship it", got.DecisionFeedback)
	require.NotNil(t, got.DecidedAt)
	assert.WithinDuration(t, time.Now(), *got.DecidedAt, time.Minute)
}

func TestDecideValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.Decide(ctx, "any", DecisionStatus("maybe"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid decision status")

	assert.ErrorIs(t, s.Decide(ctx, "no-such-id", DecisionRejected, ""), ErrNotFound)
}

func TestListRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		rec := sampleRecord(t)
		rec.CreatedAt = time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC)
		_, err := s.Save(ctx, rec)
		require.NoError(t, err)
	}

	records, err := s.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].CreatedAt.After(records[1].CreatedAt))
}

func TestRecordFromResult(t *testing.T) {
	_, ok := RecordFromResult(nil)
	assert.False(t, ok)
	_, ok = RecordFromResult(&agent.RunResult{})
	assert.False(t, ok)

	result := &agent.RunResult{
		CampaignID: "camp_9",
		Recommendation: &agent.Recommendation{
			RecommendedWorkflow: agent.WorkflowCreativeRefresh,
			Reasoning:           "fatigued creatives",
			RiskLevel:           agent.RiskLow,
			Confidence:          0.75,
		},
		Analysis: &agent.SignalAnalysis{RootCause: "creative fatigue"},
		Metadata: map[string]any{"total_iterations": 2},
	}

	rec, ok := RecordFromResult(result)
	require.True(t, ok)
	assert.Equal(t, "camp_9", rec.CampaignID)
	assert.Equal(t, agent.WorkflowCreativeRefresh, rec.Workflow)
	assert.Equal(t, "creative fatigue", rec.RootCause)
	assert.Equal(t, 2, rec.TotalIterations)
	assert.Equal(t, DecisionPending, rec.Decision)
}
