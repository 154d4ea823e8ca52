package collector

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Fatigue thresholds. A creative set is fatigued when its average age
// exceeds fatigueAgeDays, its frequency exceeds fatigueFrequency, or
// its CTR trend is declining.
const (
	fatigueAgeDays   = 30
	fatigueFrequency = 6.0
)

// CreativeCollector collects creative performance and fatigue signals.
// This is a stub implementation returning mock data.
type CreativeCollector struct {
	cache *ttlCache[CreativeMetrics]

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewCreativeCollector creates a creative metrics collector.
func NewCreativeCollector(cacheTTL time.Duration) *CreativeCollector {
	return &CreativeCollector{
		cache: newTTLCache[CreativeMetrics](cacheTTL),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewCreativeCollectorSeeded creates a collector with a fixed seed.
func NewCreativeCollectorSeeded(cacheTTL time.Duration, seed int64) *CreativeCollector {
	return &CreativeCollector{
		cache: newTTLCache[CreativeMetrics](cacheTTL),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Collect returns creative metrics for a campaign.
func (c *CreativeCollector) Collect(ctx context.Context, campaignID string) (CreativeMetrics, error) {
	if err := ctx.Err(); err != nil {
		return CreativeMetrics{}, err
	}

	key := cacheKey("creative", campaignID, nil)
	if cached, ok := c.cache.get(key); ok {
		return cached, nil
	}

	metrics := c.generateMockMetrics(campaignID)
	c.cache.set(key, metrics)
	return metrics, nil
}

// DetectFatigue is the deterministic fatigue predicate.
func DetectFatigue(avgAgeDays int, frequency float64, ctrTrend Trend) bool {
	return avgAgeDays > fatigueAgeDays || frequency > fatigueFrequency || ctrTrend == TrendDeclining
}

// FatigueReasoning renders the human-readable justification for the
// fatigue verdict.
func FatigueReasoning(avgAgeDays int, frequency float64, ctrTrend Trend) string {
	if !DetectFatigue(avgAgeDays, frequency, ctrTrend) {
		return "Creatives performing well, no refresh needed"
	}

	var reasons []string
	if avgAgeDays > fatigueAgeDays {
		reasons = append(reasons, fmt.Sprintf("creatives aging (avg %d days)", avgAgeDays))
	}
	if frequency > fatigueFrequency {
		reasons = append(reasons, fmt.Sprintf("high frequency (%.1f)", frequency))
	}
	if ctrTrend == TrendDeclining {
		reasons = append(reasons, "declining CTR trend")
	}
	return "Creative fatigue detected: " + strings.Join(reasons, ", ")
}

func (c *CreativeCollector) generateMockMetrics(campaignID string) CreativeMetrics {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()

	trends := []Trend{TrendImproving, TrendStable, TrendDeclining}

	totalCreatives := 3 + c.rng.Intn(8)
	avgAge := 5 + c.rng.Intn(41)
	avgCTR := 1.5 + c.rng.Float64()*2.5
	frequency := round1(2.5 + c.rng.Float64()*5.5)
	engagementRate := 0.5 + c.rng.Float64()*2.5

	ctrTrend := trends[c.rng.Intn(len(trends))]
	engagementTrend := trends[c.rng.Intn(len(trends))]

	topCount := min(3, totalCreatives)
	topPerformers := make([]CreativeAsset, 0, topCount)
	for i := 0; i < topCount; i++ {
		topPerformers = append(topPerformers, CreativeAsset{
			AssetID:     fmt.Sprintf("asset_%d", i),
			AssetType:   []string{"image", "video"}[c.rng.Intn(2)],
			Impressions: int64(10000 + c.rng.Intn(40001)),
			Clicks:      int64(300 + c.rng.Intn(1701)),
			CTR:         round2(2.5 + c.rng.Float64()*2.5),
			AgeDays:     1 + c.rng.Intn(30),
		})
	}

	underCount := min(2, totalCreatives)
	underperformers := make([]CreativeAsset, 0, underCount)
	for i := 0; i < underCount; i++ {
		underperformers = append(underperformers, CreativeAsset{
			AssetID:     fmt.Sprintf("asset_%d", i+10),
			AssetType:   []string{"image", "video"}[c.rng.Intn(2)],
			Impressions: int64(5000 + c.rng.Intn(10001)),
			Clicks:      int64(50 + c.rng.Intn(251)),
			CTR:         round2(0.5 + c.rng.Float64()),
			AgeDays:     20 + c.rng.Intn(41),
		})
	}

	fatigued := DetectFatigue(avgAge, frequency, ctrTrend)

	return CreativeMetrics{
		CampaignID: campaignID,

		TotalCreatives:     totalCreatives,
		AvgCreativeAgeDays: avgAge,
		AvgCTR:             round2(avgCTR),
		CTRTrend:           ctrTrend,

		Frequency:       frequency,
		EngagementRate:  round2(engagementRate),
		EngagementTrend: engagementTrend,

		TopPerformers:   topPerformers,
		Underperformers: underperformers,

		FatigueDetected:    fatigued,
		RefreshRecommended: fatigued,
		RefreshReasoning:   FatigueReasoning(avgAge, frequency, ctrTrend),

		CollectedAt: time.Now(),
	}
}
