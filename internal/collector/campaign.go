package collector

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"
)

// CampaignCollector collects campaign performance data from ad
// platforms. This is a stub implementation returning mock data.
type CampaignCollector struct {
	cache *ttlCache[CampaignMetrics]

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewCampaignCollector creates a campaign metrics collector.
func NewCampaignCollector(cacheTTL time.Duration) *CampaignCollector {
	return &CampaignCollector{
		cache: newTTLCache[CampaignMetrics](cacheTTL),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewCampaignCollectorSeeded creates a collector with a fixed seed for
// deterministic output.
func NewCampaignCollectorSeeded(cacheTTL time.Duration, seed int64) *CampaignCollector {
	return &CampaignCollector{
		cache: newTTLCache[CampaignMetrics](cacheTTL),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Collect returns campaign metrics for the given analysis window.
// Results are cached per (campaign, days) for the cache TTL.
func (c *CampaignCollector) Collect(ctx context.Context, campaignID string, days int) (CampaignMetrics, error) {
	if err := ctx.Err(); err != nil {
		return CampaignMetrics{}, err
	}

	key := cacheKey("campaign", campaignID, map[string]string{"days": strconv.Itoa(days)})
	if cached, ok := c.cache.get(key); ok {
		return cached, nil
	}

	metrics := c.generateMockMetrics(campaignID, days)
	c.cache.set(key, metrics)
	return metrics, nil
}

// generateMockMetrics produces realistic mock data. In production this
// would call the platform reporting APIs.
func (c *CampaignCollector) generateMockMetrics(campaignID string, days int) CampaignMetrics {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()

	impressions := int64(50000 + c.rng.Intn(100001))
	clicks := int64(float64(impressions) * (0.01 + c.rng.Float64()*0.04))
	conversions := int64(float64(clicks) * (0.02 + c.rng.Float64()*0.06))
	spend := 3000 + c.rng.Float64()*5000

	now := time.Now()
	name := campaignID
	if len(name) > 4 {
		name = name[len(name)-4:]
	}

	const budget = 10000.0

	return CampaignMetrics{
		CampaignID:   campaignID,
		CampaignName: fmt.Sprintf("Campaign %s", name),
		Platform:     "google_ads",

		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
		Spend:       round2(spend),
		CPA:         round2(SafeDiv(spend, float64(conversions))),
		CTR:         round2(SafeDiv(float64(clicks), float64(impressions)) * 100),
		CVR:         round2(SafeDiv(float64(conversions), float64(clicks)) * 100),
		CPM:         round2(SafeDiv(spend, float64(impressions)) * 1000),

		CPAChangePct:   round1(-40 + c.rng.Float64()*90),
		CTRChangePct:   round1(-20 + c.rng.Float64()*50),
		CVRChangePct:   round1(-25 + c.rng.Float64()*50),
		SpendChangePct: round1(-10 + c.rng.Float64()*30),

		PeriodStart:           now.AddDate(0, 0, -days),
		PeriodEnd:             now,
		ComparisonPeriodStart: now.AddDate(0, 0, -days*2),
		ComparisonPeriodEnd:   now.AddDate(0, 0, -days),

		Budget:               budget,
		BudgetUtilizationPct: round1(spend / budget * 100),
		DaysRunning:          days,
	}
}

// SafeDiv divides and returns 0 when the denominator is 0, so derived
// rates never propagate division by zero.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
