package contextbuilder

import (
	"fmt"
	"strconv"
	"strings"

	"adpilot/internal/collector"
)

// Render formats a campaign context as the markdown brief the analysis
// prompts consume. Output depends only on the context fields, so the
// same context always renders to the same text.
func Render(ctx CampaignContext) string {
	cm := ctx.Campaign
	cr := ctx.Creative
	comp := ctx.Competitor

	var sb strings.Builder

	sb.WriteString("## Campaign Overview\n")
	fmt.Fprintf(&sb, "- Campaign: %s (ID: %s)\n", cm.CampaignName, cm.CampaignID)
	fmt.Fprintf(&sb, "- Platform: %s\n", cm.Platform)
	fmt.Fprintf(&sb, "- Period: %s to %s (%d days)\n",
		cm.PeriodStart.Format("2006-01-02"), cm.PeriodEnd.Format("2006-01-02"), cm.DaysRunning)
	fmt.Fprintf(&sb, "- Budget: $%s ($%s spent, %.1f%% utilized)\n",
		groupFloat(cm.Budget), groupFloat(cm.Spend), cm.BudgetUtilizationPct)

	sb.WriteString("\n## Performance Metrics\n")
	sb.WriteString("### Current Period\n")
	fmt.Fprintf(&sb, "- Impressions: %s\n", groupInt(cm.Impressions))
	fmt.Fprintf(&sb, "- Clicks: %s (CTR: %.2f%%)\n", groupInt(cm.Clicks), cm.CTR)
	fmt.Fprintf(&sb, "- Conversions: %s (CVR: %.2f%%)\n", groupInt(cm.Conversions), cm.CVR)
	fmt.Fprintf(&sb, "- Spend: $%s\n", groupFloat(cm.Spend))
	fmt.Fprintf(&sb, "- CPA: $%.2f\n", cm.CPA)
	fmt.Fprintf(&sb, "- CPM: $%.2f\n", cm.CPM)

	sb.WriteString("\n### Changes vs. Previous Period\n")
	fmt.Fprintf(&sb, "- CPA: %+.1f%%\n", cm.CPAChangePct)
	fmt.Fprintf(&sb, "- CTR: %+.1f%%\n", cm.CTRChangePct)
	fmt.Fprintf(&sb, "- CVR: %+.1f%%\n", cm.CVRChangePct)
	fmt.Fprintf(&sb, "- Spend: %+.1f%%\n", cm.SpendChangePct)

	sb.WriteString("\n## Creative Performance\n")
	fmt.Fprintf(&sb, "- Total Creatives: %d\n", cr.TotalCreatives)
	fmt.Fprintf(&sb, "- Average Creative Age: %d days\n", cr.AvgCreativeAgeDays)
	fmt.Fprintf(&sb, "- Average CTR: %.2f%%\n", cr.AvgCTR)
	fmt.Fprintf(&sb, "- CTR Trend: %s\n", cr.CTRTrend)
	fmt.Fprintf(&sb, "- Frequency: %.1f impressions/user\n", cr.Frequency)
	fmt.Fprintf(&sb, "- Engagement Rate: %.2f%%\n", cr.EngagementRate)
	fmt.Fprintf(&sb, "- Engagement Trend: %s\n", cr.EngagementTrend)
	fmt.Fprintf(&sb, "- Fatigue Detected: %t\n", cr.FatigueDetected)
	fmt.Fprintf(&sb, "- Refresh Recommended: %t\n", cr.RefreshRecommended)
	fmt.Fprintf(&sb, "- Reasoning: %s\n", cr.RefreshReasoning)

	sb.WriteString("\n### Top Performing Assets\n")
	sb.WriteString(renderAssets(cr.TopPerformers))
	sb.WriteString("\n\n### Underperforming Assets\n")
	sb.WriteString(renderAssets(cr.Underperformers))

	sb.WriteString("\n\n## Competitive Landscape\n")
	fmt.Fprintf(&sb, "- Total Competitors: %d\n", comp.TotalCompetitors)
	fmt.Fprintf(&sb, "- New Entrants (last 7 days): %d\n", comp.NewEntrantsLastWeek)
	fmt.Fprintf(&sb, "- Market Activity Change: %+.1f%%\n", comp.MarketActivityChangePct)
	fmt.Fprintf(&sb, "- Auction Competition Score: %.1f/100\n", comp.AuctionCompetitionScore)
	fmt.Fprintf(&sb, "- Avg Competitor Bid Change: %+.1f%%\n", comp.AvgCompetitorBidChangePct)
	fmt.Fprintf(&sb, "- Impression Share Lost to Competitors: %.1f%%\n", comp.ImpressionShareLostPct)
	fmt.Fprintf(&sb, "- Competitive Pressure: %s\n", strings.ToUpper(string(comp.CompetitivePressure)))
	fmt.Fprintf(&sb, "- Assessment: %s\n", comp.PressureReasoning)

	sb.WriteString("\n### Top Competitors\n")
	sb.WriteString(renderCompetitors(comp.TopCompetitors))

	return sb.String()
}

func renderAssets(assets []collector.CreativeAsset) string {
	if len(assets) == 0 {
		return "  None"
	}
	lines := make([]string, 0, len(assets))
	for _, a := range assets {
		lines = append(lines, fmt.Sprintf(
			"  - %s (%s): %s impressions, CTR %.2f%%, %d days old",
			a.AssetID, a.AssetType, groupInt(a.Impressions), a.CTR, a.AgeDays))
	}
	return strings.Join(lines, "\n")
}

func renderCompetitors(competitors []collector.CompetitorActivity) string {
	if len(competitors) == 0 {
		return "  None"
	}
	lines := make([]string, 0, len(competitors))
	for _, c := range competitors {
		lines = append(lines, fmt.Sprintf(
			"  - %s: %.1f%% market share, activity %+.1f%%, spend %+.1f%%",
			c.CompetitorName, c.MarketSharePct, c.ActivityChangePct, c.EstimatedSpendChangePct))
	}
	return strings.Join(lines, "\n")
}

// groupInt renders an integer with comma thousands separators.
func groupInt(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}

// groupFloat renders a currency amount with comma separators and two
// decimal places.
func groupFloat(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	frac := int64((v-float64(whole))*100 + 0.5)
	if frac >= 100 {
		whole++
		frac -= 100
	}
	s := fmt.Sprintf("%s.%02d", groupInt(whole), frac)
	if neg {
		return "-" + s
	}
	return s
}
