// Package collector gathers the telemetry that feeds a pipeline run:
// campaign performance, creative health, and competitive signals.
// Collectors are stubs backed by mock generators; in production they
// would be wired to ad-platform APIs. Each collector keeps a
// time-bounded cache so repeated runs against the same campaign do not
// recollect.
package collector

import "time"

// Trend describes the direction of a creative metric.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// Pressure is the derived competitive-pressure classification.
type Pressure string

const (
	PressureLow    Pressure = "low"
	PressureMedium Pressure = "medium"
	PressureHigh   Pressure = "high"
)

// CampaignMetrics holds campaign performance for the analysis window
// and deltas against the prior window. Derived rates are zero when
// their denominator is zero.
type CampaignMetrics struct {
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Platform     string `json:"platform"`

	// Current period metrics
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions int64   `json:"conversions"`
	Spend       float64 `json:"spend"`
	CPA         float64 `json:"cpa"`
	CTR         float64 `json:"ctr"`
	CVR         float64 `json:"cvr"`
	CPM         float64 `json:"cpm"`

	// Comparison to previous period
	CPAChangePct   float64 `json:"cpa_change_pct"`
	CTRChangePct   float64 `json:"ctr_change_pct"`
	CVRChangePct   float64 `json:"cvr_change_pct"`
	SpendChangePct float64 `json:"spend_change_pct"`

	// Time range
	PeriodStart           time.Time `json:"period_start"`
	PeriodEnd             time.Time `json:"period_end"`
	ComparisonPeriodStart time.Time `json:"comparison_period_start"`
	ComparisonPeriodEnd   time.Time `json:"comparison_period_end"`

	// Additional context
	Budget               float64 `json:"budget"`
	BudgetUtilizationPct float64 `json:"budget_utilization_pct"`
	DaysRunning          int     `json:"days_running"`
}

// CreativeAsset is an individual creative unit.
type CreativeAsset struct {
	AssetID     string  `json:"asset_id"`
	AssetType   string  `json:"asset_type"` // image, video, text
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	CTR         float64 `json:"ctr"`
	AgeDays     int     `json:"age_days"`
}

// CreativeMetrics holds creative performance and fatigue indicators.
type CreativeMetrics struct {
	CampaignID string `json:"campaign_id"`

	// Overall creative performance
	TotalCreatives     int     `json:"total_creatives"`
	AvgCreativeAgeDays int     `json:"avg_creative_age_days"`
	AvgCTR             float64 `json:"avg_ctr"`
	CTRTrend           Trend   `json:"ctr_trend"`

	// Fatigue indicators
	Frequency       float64 `json:"frequency"` // Average impressions per user
	EngagementRate  float64 `json:"engagement_rate"`
	EngagementTrend Trend   `json:"engagement_trend"`

	// Individual assets
	TopPerformers   []CreativeAsset `json:"top_performers"`
	Underperformers []CreativeAsset `json:"underperformers"`

	// Derived assessment
	FatigueDetected    bool   `json:"fatigue_detected"`
	RefreshRecommended bool   `json:"refresh_recommended"`
	RefreshReasoning   string `json:"refresh_reasoning"`

	CollectedAt time.Time `json:"collected_at"`
}

// CompetitorActivity is a single named competitor's movement.
type CompetitorActivity struct {
	CompetitorName          string  `json:"competitor_name"`
	MarketSharePct          float64 `json:"market_share_pct"`
	ActivityChangePct       float64 `json:"activity_change_pct"`
	EstimatedSpendChangePct float64 `json:"estimated_spend_change_pct"`
}

// CompetitorSignals holds competitive-landscape indicators.
type CompetitorSignals struct {
	CampaignID string `json:"campaign_id"`

	// Overall market dynamics
	TotalCompetitors       int     `json:"total_competitors"`
	NewEntrantsLastWeek    int     `json:"new_entrants_last_week"`
	MarketActivityChangePct float64 `json:"market_activity_change_pct"`

	// Competitive pressure
	AuctionCompetitionScore      float64 `json:"auction_competition_score"` // 0-100
	AvgCompetitorBidChangePct    float64 `json:"avg_competitor_bid_change_pct"`
	ImpressionShareLostPct       float64 `json:"impression_share_lost_to_competitors_pct"`

	// Top competitors
	TopCompetitors []CompetitorActivity `json:"top_competitors"`

	// Derived assessment
	CompetitivePressure Pressure `json:"competitive_pressure"`
	PressureReasoning   string   `json:"pressure_reasoning"`

	CollectedAt time.Time `json:"collected_at"`
}
