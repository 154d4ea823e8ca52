package collector

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Pressure-score weighting: auction competition contributes 40 points,
// market-activity magnitude 30, bid-change magnitude 30, on a
// 100-point scale.
const (
	pressureHighThreshold   = 70.0
	pressureMediumThreshold = 40.0

	marketActivityCap = 50.0
	bidChangeCap      = 40.0
)

// CompetitorCollector collects competitor intelligence. This is a stub
// implementation returning mock data; in production it would integrate
// with auction-insights and competitive-intel providers.
type CompetitorCollector struct {
	cache *ttlCache[CompetitorSignals]

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewCompetitorCollector creates a competitor signals collector.
func NewCompetitorCollector(cacheTTL time.Duration) *CompetitorCollector {
	return &CompetitorCollector{
		cache: newTTLCache[CompetitorSignals](cacheTTL),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewCompetitorCollectorSeeded creates a collector with a fixed seed.
func NewCompetitorCollectorSeeded(cacheTTL time.Duration, seed int64) *CompetitorCollector {
	return &CompetitorCollector{
		cache: newTTLCache[CompetitorSignals](cacheTTL),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Collect returns competitor signals for a campaign.
func (c *CompetitorCollector) Collect(ctx context.Context, campaignID string) (CompetitorSignals, error) {
	if err := ctx.Err(); err != nil {
		return CompetitorSignals{}, err
	}

	key := cacheKey("competitor", campaignID, nil)
	if cached, ok := c.cache.get(key); ok {
		return cached, nil
	}

	signals := c.generateMockSignals(campaignID)
	c.cache.set(key, signals)
	return signals, nil
}

// PressureScore computes the weighted 0-100 competitive-pressure score
// from the raw signals. Monotonic in auction score.
func PressureScore(auctionScore, marketActivityChangePct, bidChangePct float64) float64 {
	return auctionScore/100*40 +
		math.Min(math.Abs(marketActivityChangePct), marketActivityCap)/marketActivityCap*30 +
		math.Min(math.Abs(bidChangePct), bidChangeCap)/bidChangeCap*30
}

// ClassifyPressure maps a pressure score to its three-level label.
func ClassifyPressure(score float64) Pressure {
	switch {
	case score > pressureHighThreshold:
		return PressureHigh
	case score > pressureMediumThreshold:
		return PressureMedium
	default:
		return PressureLow
	}
}

// pressureReasoning renders the justification text for a pressure
// classification.
func pressureReasoning(p Pressure, auctionScore, marketChange, bidChange float64, newEntrants int) string {
	switch p {
	case PressureHigh:
		return fmt.Sprintf(
			"High competitive pressure: auction competition score %.0f/100, market activity up %.1f%%, avg bid increase %.1f%%",
			auctionScore, marketChange, bidChange)
	case PressureMedium:
		return fmt.Sprintf(
			"Moderate competitive pressure: auction score %.0f/100, %d new entrants, market activity change %.1f%%",
			auctionScore, newEntrants, marketChange)
	default:
		return fmt.Sprintf(
			"Low competitive pressure: stable auction environment, market activity change %.1f%%",
			marketChange)
	}
}

func (c *CompetitorCollector) generateMockSignals(campaignID string) CompetitorSignals {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()

	totalCompetitors := 5 + c.rng.Intn(11)
	newEntrants := c.rng.Intn(5)
	marketChange := round1(-20 + c.rng.Float64()*80)
	auctionScore := round1(30 + c.rng.Float64()*65)
	bidChange := round1(-15 + c.rng.Float64()*55)
	impressionShareLost := round1(5 + c.rng.Float64()*30)

	topCount := min(5, totalCompetitors)
	topCompetitors := make([]CompetitorActivity, 0, topCount)
	for i := 0; i < topCount; i++ {
		topCompetitors = append(topCompetitors, CompetitorActivity{
			CompetitorName:          fmt.Sprintf("Competitor %c", 'A'+i),
			MarketSharePct:          round1(10 + c.rng.Float64()*20),
			ActivityChangePct:       round1(-10 + c.rng.Float64()*60),
			EstimatedSpendChangePct: round1(-5 + c.rng.Float64()*50),
		})
	}

	pressure := ClassifyPressure(PressureScore(auctionScore, marketChange, bidChange))

	return CompetitorSignals{
		CampaignID: campaignID,

		TotalCompetitors:        totalCompetitors,
		NewEntrantsLastWeek:     newEntrants,
		MarketActivityChangePct: marketChange,

		AuctionCompetitionScore:   auctionScore,
		AvgCompetitorBidChangePct: bidChange,
		ImpressionShareLostPct:    impressionShareLost,

		TopCompetitors: topCompetitors,

		CompetitivePressure: pressure,
		PressureReasoning:   pressureReasoning(pressure, auctionScore, marketChange, bidChange, newEntrants),

		CollectedAt: time.Now(),
	}
}
