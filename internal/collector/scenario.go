package collector

import "time"

// Scenario is a predefined, fully deterministic set of collector
// outputs used for demos and offline pipeline runs. Each one exercises
// a distinct reasoning pattern.
type Scenario struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Description string `json:"description"`

	// ExpectedWorkflow names the recommendation a well-reasoned run
	// should land on. Informational, not enforced.
	ExpectedWorkflow string `json:"expected_workflow"`

	Campaign   CampaignMetrics   `json:"campaign_metrics"`
	Creative   CreativeMetrics   `json:"creative_metrics"`
	Competitor CompetitorSignals `json:"competitor_signals"`
}

// LookupScenario returns the named scenario, or false if unknown.
func LookupScenario(name string) (Scenario, bool) {
	for _, s := range Scenarios() {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// Scenarios returns all predefined scenarios in presentation order.
func Scenarios() []Scenario {
	return []Scenario{
		competitivePressureScenario(),
		creativeFatigueScenario(),
		audienceSaturationScenario(),
		winningCampaignScenario(),
		multiSignalScenario(),
	}
}

// scenarioWindow produces the standard 7-day analysis window and its
// comparison window, anchored at now.
func scenarioWindow(now time.Time) (periodStart, periodEnd, compStart, compEnd time.Time) {
	return now.AddDate(0, 0, -7), now, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7)
}

func competitivePressureScenario() Scenario {
	now := time.Now()
	ps, pe, cs, ce := scenarioWindow(now)
	id := "demo_competitive_pressure"

	return Scenario{
		Name:             "competitive_pressure",
		Title:            "Competitive Pressure Scenario",
		Summary:          "CPA spike due to increased competitor activity, not internal issues",
		Description:      "CPA spike due to increased competitive pressure, not creative issues",
		ExpectedWorkflow: "Bid Adjustment",
		Campaign: CampaignMetrics{
			CampaignID:   id,
			CampaignName: "Spring Sale 2026 - Premium Products",
			Platform:     "google_ads",
			Impressions:  125000,
			Clicks:       3500,
			Conversions:  65,
			Spend:        5850.00,
			CPA:          90.00,
			CTR:          2.8,
			CVR:          1.86,
			CPM:          46.80,

			CPAChangePct:   32.5,
			CTRChangePct:   -2.1,
			CVRChangePct:   -1.5,
			SpendChangePct: 15.2,

			PeriodStart:           ps,
			PeriodEnd:             pe,
			ComparisonPeriodStart: cs,
			ComparisonPeriodEnd:   ce,

			Budget:               10000.0,
			BudgetUtilizationPct: 58.5,
			DaysRunning:          7,
		},
		Creative: CreativeMetrics{
			CampaignID:         id,
			TotalCreatives:     5,
			AvgCreativeAgeDays: 18,
			AvgCTR:             2.85,
			CTRTrend:           TrendStable,
			Frequency:          4.2,
			EngagementRate:     2.1,
			EngagementTrend:    TrendStable,
			TopPerformers: []CreativeAsset{
				{AssetID: "creative_01", AssetType: "video", Impressions: 45000, Clicks: 1350, CTR: 3.0, AgeDays: 18},
				{AssetID: "creative_02", AssetType: "image", Impressions: 38000, Clicks: 1026, CTR: 2.7, AgeDays: 18},
			},
			FatigueDetected:    false,
			RefreshRecommended: false,
			RefreshReasoning:   "Creatives performing consistently, no fatigue indicators",
			CollectedAt:        now,
		},
		Competitor: CompetitorSignals{
			CampaignID:                id,
			TotalCompetitors:          12,
			NewEntrantsLastWeek:       3,
			MarketActivityChangePct:   42.5,
			AuctionCompetitionScore:   87.5,
			AvgCompetitorBidChangePct: 28.3,
			ImpressionShareLostPct:    22.5,
			TopCompetitors: []CompetitorActivity{
				{CompetitorName: "Competitor A", MarketSharePct: 18.5, ActivityChangePct: 45.2, EstimatedSpendChangePct: 38.7},
				{CompetitorName: "Competitor B", MarketSharePct: 15.3, ActivityChangePct: 35.8, EstimatedSpendChangePct: 42.1},
				{CompetitorName: "Competitor C (NEW)", MarketSharePct: 12.1, ActivityChangePct: 100.0, EstimatedSpendChangePct: 100.0},
			},
			CompetitivePressure: PressureHigh,
			PressureReasoning:   "High competitive pressure: 3 new market entrants, auction competition score 87.5/100, average competitor bids increased 28.3%, lost 22.5% impression share to competitors",
			CollectedAt:         now,
		},
	}
}

func creativeFatigueScenario() Scenario {
	now := time.Now()
	ps, pe, cs, ce := scenarioWindow(now)
	id := "demo_creative_fatigue"

	return Scenario{
		Name:             "creative_fatigue",
		Title:            "Creative Fatigue Scenario",
		Summary:          "Performance declining due to old, worn-out ad creatives",
		Description:      "Performance declining due to creative fatigue, not market conditions",
		ExpectedWorkflow: "Creative Refresh",
		Campaign: CampaignMetrics{
			CampaignID:   id,
			CampaignName: "Summer Collection Launch",
			Platform:     "meta_ads",
			Impressions:  180000,
			Clicks:       2700,
			Conversions:  82,
			Spend:        4920.00,
			CPA:          60.00,
			CTR:          1.5,
			CVR:          3.04,
			CPM:          27.33,

			CPAChangePct:   25.0,
			CTRChangePct:   -38.5,
			CVRChangePct:   2.1,
			SpendChangePct: 5.2,

			PeriodStart:           ps,
			PeriodEnd:             pe,
			ComparisonPeriodStart: cs,
			ComparisonPeriodEnd:   ce,

			Budget:               8000.0,
			BudgetUtilizationPct: 61.5,
			DaysRunning:          7,
		},
		Creative: CreativeMetrics{
			CampaignID:         id,
			TotalCreatives:     4,
			AvgCreativeAgeDays: 42,
			AvgCTR:             1.52,
			CTRTrend:           TrendDeclining,
			Frequency:          7.8,
			EngagementRate:     0.85,
			EngagementTrend:    TrendDeclining,
			TopPerformers: []CreativeAsset{
				{AssetID: "creative_old_01", AssetType: "image", Impressions: 65000, Clicks: 975, CTR: 1.5, AgeDays: 42},
			},
			Underperformers: []CreativeAsset{
				{AssetID: "creative_old_02", AssetType: "video", Impressions: 55000, Clicks: 660, CTR: 1.2, AgeDays: 42},
				{AssetID: "creative_old_03", AssetType: "image", Impressions: 60000, Clicks: 540, CTR: 0.9, AgeDays: 42},
			},
			FatigueDetected:    true,
			RefreshRecommended: true,
			RefreshReasoning:   "Creative fatigue detected: creatives aging (avg 42 days), high frequency (7.8), declining CTR trend, declining engagement",
			CollectedAt:        now,
		},
		Competitor: CompetitorSignals{
			CampaignID:                id,
			TotalCompetitors:          8,
			NewEntrantsLastWeek:       0,
			MarketActivityChangePct:   8.5,
			AuctionCompetitionScore:   52.0,
			AvgCompetitorBidChangePct: 5.2,
			ImpressionShareLostPct:    8.5,
			TopCompetitors: []CompetitorActivity{
				{CompetitorName: "Competitor X", MarketSharePct: 22.5, ActivityChangePct: 7.2, EstimatedSpendChangePct: 9.1},
			},
			CompetitivePressure: PressureMedium,
			PressureReasoning:   "Moderate competitive pressure: stable market, auction score 52.0/100, normal bid changes",
			CollectedAt:         now,
		},
	}
}

func audienceSaturationScenario() Scenario {
	now := time.Now()
	ps, pe, cs, ce := scenarioWindow(now)
	id := "demo_audience_saturation"

	return Scenario{
		Name:             "audience_saturation",
		Title:            "Audience Saturation Scenario",
		Summary:          "High frequency indicates audience exhaustion, need expansion",
		Description:      "Audience exhausted with high frequency, need to expand targeting",
		ExpectedWorkflow: "Audience Expansion",
		Campaign: CampaignMetrics{
			CampaignID:   id,
			CampaignName: "Retargeting - Cart Abandoners Q1",
			Platform:     "google_ads",
			Impressions:  95000,
			Clicks:       2375,
			Conversions:  48,
			Spend:        3840.00,
			CPA:          80.00,
			CTR:          2.5,
			CVR:          2.02,
			CPM:          40.42,

			CPAChangePct:   28.0,
			CTRChangePct:   -12.5,
			CVRChangePct:   -8.2,
			SpendChangePct: 22.5,

			PeriodStart:           ps,
			PeriodEnd:             pe,
			ComparisonPeriodStart: cs,
			ComparisonPeriodEnd:   ce,

			Budget:               6000.0,
			BudgetUtilizationPct: 64.0,
			DaysRunning:          7,
		},
		Creative: CreativeMetrics{
			CampaignID:         id,
			TotalCreatives:     6,
			AvgCreativeAgeDays: 21,
			AvgCTR:             2.48,
			CTRTrend:           TrendDeclining,
			Frequency:          8.5,
			EngagementRate:     1.2,
			EngagementTrend:    TrendDeclining,
			TopPerformers: []CreativeAsset{
				{AssetID: "retarget_01", AssetType: "image", Impressions: 35000, Clicks: 875, CTR: 2.5, AgeDays: 21},
			},
			FatigueDetected:    true,
			RefreshRecommended: true,
			RefreshReasoning:   "High frequency (8.5) indicates audience seeing ads repeatedly",
			CollectedAt:        now,
		},
		Competitor: CompetitorSignals{
			CampaignID:                id,
			TotalCompetitors:          10,
			NewEntrantsLastWeek:       1,
			MarketActivityChangePct:   15.2,
			AuctionCompetitionScore:   58.0,
			AvgCompetitorBidChangePct: 12.5,
			ImpressionShareLostPct:    11.5,
			TopCompetitors: []CompetitorActivity{
				{CompetitorName: "Competitor Y", MarketSharePct: 19.5, ActivityChangePct: 12.8, EstimatedSpendChangePct: 15.2},
			},
			CompetitivePressure: PressureMedium,
			PressureReasoning:   "Moderate competitive pressure: some new activity but stable overall",
			CollectedAt:         now,
		},
	}
}

func winningCampaignScenario() Scenario {
	now := time.Now()
	ps, pe, cs, ce := scenarioWindow(now)
	id := "demo_winning"

	return Scenario{
		Name:             "winning_campaign",
		Title:            "Winning Campaign Scenario",
		Summary:          "Everything performing well, no action needed",
		Description:      "Campaign performing excellently across all metrics, no action needed",
		ExpectedWorkflow: "Continue Monitoring",
		Campaign: CampaignMetrics{
			CampaignID:   id,
			CampaignName: "Brand Awareness Q1 - Success Story",
			Platform:     "google_ads",
			Impressions:  220000,
			Clicks:       8800,
			Conversions:  265,
			Spend:        6890.00,
			CPA:          26.00,
			CTR:          4.0,
			CVR:          3.01,
			CPM:          31.32,

			CPAChangePct:   -15.5,
			CTRChangePct:   12.3,
			CVRChangePct:   8.5,
			SpendChangePct: 18.5,

			PeriodStart:           ps,
			PeriodEnd:             pe,
			ComparisonPeriodStart: cs,
			ComparisonPeriodEnd:   ce,

			Budget:               10000.0,
			BudgetUtilizationPct: 68.9,
			DaysRunning:          7,
		},
		Creative: CreativeMetrics{
			CampaignID:         id,
			TotalCreatives:     8,
			AvgCreativeAgeDays: 15,
			AvgCTR:             4.1,
			CTRTrend:           TrendImproving,
			Frequency:          3.2,
			EngagementRate:     3.8,
			EngagementTrend:    TrendImproving,
			TopPerformers: []CreativeAsset{
				{AssetID: "winning_01", AssetType: "video", Impressions: 75000, Clicks: 3375, CTR: 4.5, AgeDays: 15},
				{AssetID: "winning_02", AssetType: "image", Impressions: 62000, Clicks: 2604, CTR: 4.2, AgeDays: 15},
			},
			FatigueDetected:    false,
			RefreshRecommended: false,
			RefreshReasoning:   "Creatives performing exceptionally well with improving trends",
			CollectedAt:        now,
		},
		Competitor: CompetitorSignals{
			CampaignID:                id,
			TotalCompetitors:          9,
			NewEntrantsLastWeek:       0,
			MarketActivityChangePct:   -5.2,
			AuctionCompetitionScore:   42.0,
			AvgCompetitorBidChangePct: -3.5,
			ImpressionShareLostPct:    5.2,
			TopCompetitors: []CompetitorActivity{
				{CompetitorName: "Competitor Z", MarketSharePct: 16.5, ActivityChangePct: -2.1, EstimatedSpendChangePct: -4.8},
			},
			CompetitivePressure: PressureLow,
			PressureReasoning:   "Low competitive pressure: market stable, competitors reducing spend",
			CollectedAt:         now,
		},
	}
}

func multiSignalScenario() Scenario {
	now := time.Now()
	ps, pe, cs, ce := scenarioWindow(now)
	id := "demo_complex"

	return Scenario{
		Name:             "multi_signal_problem",
		Title:            "Complex Multi-Signal Scenario",
		Summary:          "Multiple issues present, agent must prioritize correctly",
		Description:      "Both creative fatigue AND competitive pressure - agent must prioritize root cause",
		ExpectedWorkflow: "Creative Refresh or Bid Adjustment",
		Campaign: CampaignMetrics{
			CampaignID:   id,
			CampaignName: "Holiday Sale 2026 - Multi-Product",
			Platform:     "meta_ads",
			Impressions:  155000,
			Clicks:       3100,
			Conversions:  58,
			Spend:        5220.00,
			CPA:          90.00,
			CTR:          2.0,
			CVR:          1.87,
			CPM:          33.68,

			CPAChangePct:   35.5,
			CTRChangePct:   -22.8,
			CVRChangePct:   -5.5,
			SpendChangePct: 28.5,

			PeriodStart:           ps,
			PeriodEnd:             pe,
			ComparisonPeriodStart: cs,
			ComparisonPeriodEnd:   ce,

			Budget:               9000.0,
			BudgetUtilizationPct: 58.0,
			DaysRunning:          7,
		},
		Creative: CreativeMetrics{
			CampaignID:         id,
			TotalCreatives:     6,
			AvgCreativeAgeDays: 35,
			AvgCTR:             2.05,
			CTRTrend:           TrendDeclining,
			Frequency:          6.2,
			EngagementRate:     1.35,
			EngagementTrend:    TrendDeclining,
			TopPerformers: []CreativeAsset{
				{AssetID: "complex_01", AssetType: "image", Impressions: 52000, Clicks: 1092, CTR: 2.1, AgeDays: 35},
			},
			Underperformers: []CreativeAsset{
				{AssetID: "complex_02", AssetType: "video", Impressions: 48000, Clicks: 816, CTR: 1.7, AgeDays: 35},
			},
			FatigueDetected:    true,
			RefreshRecommended: true,
			RefreshReasoning:   "Creative fatigue detected: aging creatives (35 days), frequency at 6.2, declining trends",
			CollectedAt:        now,
		},
		Competitor: CompetitorSignals{
			CampaignID:                id,
			TotalCompetitors:          15,
			NewEntrantsLastWeek:       2,
			MarketActivityChangePct:   32.5,
			AuctionCompetitionScore:   75.0,
			AvgCompetitorBidChangePct: 22.8,
			ImpressionShareLostPct:    18.5,
			TopCompetitors: []CompetitorActivity{
				{CompetitorName: "Major Competitor A", MarketSharePct: 21.5, ActivityChangePct: 35.2, EstimatedSpendChangePct: 38.5},
				{CompetitorName: "Major Competitor B", MarketSharePct: 18.3, ActivityChangePct: 28.7, EstimatedSpendChangePct: 32.1},
			},
			CompetitivePressure: PressureHigh,
			PressureReasoning:   "High competitive pressure: 2 new entrants, auction score 75.0/100, competitor bids up 22.8%",
			CollectedAt:         now,
		},
	}
}
