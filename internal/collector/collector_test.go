package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFatigue(t *testing.T) {
	tests := []struct {
		name      string
		ageDays   int
		frequency float64
		trend     Trend
		want      bool
	}{
		{"healthy creatives", 15, 3.0, TrendStable, false},
		{"age at threshold is not fatigue", 30, 3.0, TrendStable, false},
		{"age past threshold", 31, 3.0, TrendStable, true},
		{"frequency at threshold is not fatigue", 15, 6.0, TrendStable, false},
		{"frequency past threshold", 15, 6.1, TrendStable, true},
		{"declining trend alone", 15, 3.0, TrendDeclining, true},
		{"improving trend alone", 15, 3.0, TrendImproving, false},
		{"everything wrong", 45, 8.0, TrendDeclining, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFatigue(tt.ageDays, tt.frequency, tt.trend))
		})
	}
}

func TestFatigueReasoning(t *testing.T) {
	reason := FatigueReasoning(45, 7.5, TrendDeclining)
	assert.Contains(t, reason, "Creative fatigue detected")
	assert.Contains(t, reason, "45 days")

	healthy := FatigueReasoning(10, 2.0, TrendImproving)
	assert.Equal(t, "Creatives performing well, no refresh needed", healthy)
}

func TestPressureScore(t *testing.T) {
	// Each component saturates at its cap.
	assert.InDelta(t, 100.0, PressureScore(100, 50, 40), 1e-9)
	assert.InDelta(t, 100.0, PressureScore(100, 90, 80), 1e-9)
	assert.InDelta(t, 0.0, PressureScore(0, 0, 0), 1e-9)

	// Market and bid components use magnitude, not sign.
	assert.InDelta(t, PressureScore(50, 20, 10), PressureScore(50, -20, -10), 1e-9)

	// Monotonic in auction score.
	prev := -1.0
	for auction := 0.0; auction <= 100; auction += 5 {
		score := PressureScore(auction, 12.5, 8.0)
		assert.Greater(t, score, prev)
		prev = score
	}
}

func TestClassifyPressure(t *testing.T) {
	assert.Equal(t, PressureLow, ClassifyPressure(0))
	assert.Equal(t, PressureLow, ClassifyPressure(40))
	assert.Equal(t, PressureMedium, ClassifyPressure(40.1))
	assert.Equal(t, PressureMedium, ClassifyPressure(70))
	assert.Equal(t, PressureHigh, ClassifyPressure(70.1))
	assert.Equal(t, PressureHigh, ClassifyPressure(100))
}

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 2.5, SafeDiv(5, 2))
	assert.Equal(t, 0.0, SafeDiv(5, 0))
	assert.Equal(t, 0.0, SafeDiv(0, 0))
}

func TestCacheKeyStable(t *testing.T) {
	a := cacheKey("campaign", "c1", map[string]string{"days": "7", "window": "weekly"})
	b := cacheKey("campaign", "c1", map[string]string{"window": "weekly", "days": "7"})
	assert.Equal(t, a, b)
	assert.Equal(t, "campaign:c1:days=7:window=weekly", a)

	assert.NotEqual(t, a, cacheKey("creative", "c1", map[string]string{"days": "7", "window": "weekly"}))
	assert.NotEqual(t, a, cacheKey("campaign", "c2", map[string]string{"days": "7", "window": "weekly"}))
}

func TestTTLCacheExpiry(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := newTTLCache[int](5 * time.Minute)
	cache.now = func() time.Time { return clock }

	cache.set("k", 42)

	got, ok := cache.get("k")
	require.True(t, ok)
	assert.Equal(t, 42, got)

	// One second short of the TTL is still fresh.
	clock = clock.Add(5*time.Minute - time.Second)
	_, ok = cache.get("k")
	assert.True(t, ok)

	// At the TTL the entry expires and is evicted.
	clock = clock.Add(time.Second)
	_, ok = cache.get("k")
	assert.False(t, ok)

	// Expired entries stay gone even if the clock rolls back.
	clock = clock.Add(-time.Hour)
	_, ok = cache.get("k")
	assert.False(t, ok)
}

func TestCampaignCollectorCaches(t *testing.T) {
	c := NewCampaignCollectorSeeded(time.Minute, 1)

	first, err := c.Collect(context.Background(), "camp_123", 7)
	require.NoError(t, err)
	assert.Equal(t, "camp_123", first.CampaignID)

	// Second call within TTL returns the cached snapshot, so the
	// randomized fields cannot have moved.
	second, err := c.Collect(context.Background(), "camp_123", 7)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A different window is a different cache entry.
	other, err := c.Collect(context.Background(), "camp_123", 14)
	require.NoError(t, err)
	assert.NotEqual(t, first.PeriodStart, other.PeriodStart)
}

func TestCampaignMetricsInternallyConsistent(t *testing.T) {
	c := NewCampaignCollectorSeeded(time.Minute, 7)

	m, err := c.Collect(context.Background(), "camp_check", 7)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, m.Impressions, m.Clicks)
	assert.GreaterOrEqual(t, m.Clicks, m.Conversions)
	assert.InDelta(t, SafeDiv(float64(m.Clicks), float64(m.Impressions))*100, m.CTR, 0.01)
	assert.InDelta(t, SafeDiv(m.Spend, float64(m.Conversions)), m.CPA, 0.01)
	assert.True(t, m.PeriodEnd.After(m.PeriodStart))
	assert.True(t, m.ComparisonPeriodEnd.Equal(m.PeriodStart) || m.ComparisonPeriodEnd.Before(m.PeriodStart))
}

func TestCreativeCollectorDerivedFields(t *testing.T) {
	c := NewCreativeCollectorSeeded(time.Minute, 42)

	m, err := c.Collect(context.Background(), "camp_creative")
	require.NoError(t, err)

	assert.Equal(t, DetectFatigue(m.AvgCreativeAgeDays, m.Frequency, m.CTRTrend), m.FatigueDetected)
	assert.Equal(t, m.FatigueDetected, m.RefreshRecommended)
	assert.NotEmpty(t, m.RefreshReasoning)
	assert.NotEmpty(t, m.TopPerformers)
}

func TestCompetitorCollectorDerivedFields(t *testing.T) {
	c := NewCompetitorCollectorSeeded(time.Minute, 42)

	s, err := c.Collect(context.Background(), "camp_comp")
	require.NoError(t, err)

	score := PressureScore(s.AuctionCompetitionScore, s.MarketActivityChangePct, s.AvgCompetitorBidChangePct)
	assert.Equal(t, ClassifyPressure(score), s.CompetitivePressure)
	assert.NotEmpty(t, s.PressureReasoning)
	assert.LessOrEqual(t, len(s.TopCompetitors), 5)
}

func TestCollectorsHonorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCampaignCollector(time.Minute).Collect(ctx, "c1", 7)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewCreativeCollector(time.Minute).Collect(ctx, "c1")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewCompetitorCollector(time.Minute).Collect(ctx, "c1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectionErrorWrapsCause(t *testing.T) {
	cause := errors.New("upstream timeout")
	err := &CollectionError{Source: "campaign", Err: cause}

	assert.Contains(t, err.Error(), "campaign")
	assert.ErrorIs(t, err, cause)

	var ce *CollectionError
	require.ErrorAs(t, error(err), &ce)
	assert.Equal(t, "campaign", ce.Source)
}

func TestScenarios(t *testing.T) {
	names := []string{
		"competitive_pressure",
		"creative_fatigue",
		"audience_saturation",
		"winning_campaign",
		"multi_signal_problem",
	}

	all := Scenarios()
	require.Len(t, all, len(names))
	for i, name := range names {
		assert.Equal(t, name, all[i].Name)

		s, ok := LookupScenario(name)
		require.True(t, ok, "scenario %s missing", name)
		assert.Equal(t, s.Campaign.CampaignID, s.Creative.CampaignID)
		assert.Equal(t, s.Campaign.CampaignID, s.Competitor.CampaignID)
		assert.NotEmpty(t, s.ExpectedWorkflow)
		assert.NotEmpty(t, s.Competitor.PressureReasoning)
	}

	_, ok := LookupScenario("no_such_scenario")
	assert.False(t, ok)
}
