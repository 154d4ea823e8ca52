package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSection(t *testing.T) {
	text := `**Key Signals**: CPA up 32.5%
continuing on the next line

**Root Cause Hypothesis**: Competitive pressure
**Confidence**: 0.85
`

	assert.Equal(t, "CPA up 32.5% continuing on the next line", ExtractSection(text, "Key Signals"))
	assert.Equal(t, "Competitive pressure", ExtractSection(text, "Root Cause"))
	assert.Equal(t, NotSpecified, ExtractSection(text, "Supporting Evidence"))
	assert.Equal(t, NotSpecified, ExtractSection("", "Key Signals"))
}

func TestExtractSectionStopsAtNextHeading(t *testing.T) {
	text := `**Reasoning:** The root cause is auction pressure
**Specific Actions:** Increase bids by 15%
`
	assert.Equal(t, "The root cause is auction pressure", ExtractSection(text, "Reasoning"))
	assert.Equal(t, "Increase bids by 15%", ExtractSection(text, "Specific Actions"))
}

func TestExtractSectionLabelWithoutColonIgnored(t *testing.T) {
	text := "the reasoning here is sound\n**Reasoning:** actual content\n"
	assert.Equal(t, "actual content", ExtractSection(text, "Reasoning"))
}

func TestExtractWorkflowType(t *testing.T) {
	assert.Equal(t, WorkflowBidAdjustment,
		ExtractWorkflowType("**Recommended Workflow:** Bid Adjustment"))
	assert.Equal(t, WorkflowCreativeRefresh,
		ExtractWorkflowType("we should do a CREATIVE REFRESH immediately"))
	assert.Equal(t, WorkflowContinueMonitoring,
		ExtractWorkflowType("no recognizable action here"))
	assert.Equal(t, WorkflowContinueMonitoring, ExtractWorkflowType(""))
}

func TestExtractRiskLevel(t *testing.T) {
	assert.Equal(t, RiskHigh, ExtractRiskLevel("**Risk Level:** high - could overspend"))
	assert.Equal(t, RiskMedium, ExtractRiskLevel("Risk Level: Medium"))
	assert.Equal(t, RiskHigh, ExtractRiskLevel("risk: HIGH"))
	assert.Equal(t, RiskLow, ExtractRiskLevel("**Risk Level:** low"))
	assert.Equal(t, RiskLow, ExtractRiskLevel("no risk statement at all"))
}

func TestExtractSatisfactory(t *testing.T) {
	assert.True(t, ExtractSatisfactory("**Is Satisfactory:** yes"))
	assert.False(t, ExtractSatisfactory("**Is Satisfactory:** no"))
	assert.False(t, ExtractSatisfactory("is satisfactory: NO"))

	// A verdict that cannot be parsed accepts the recommendation.
	assert.True(t, ExtractSatisfactory("the model rambled instead of answering"))
	assert.True(t, ExtractSatisfactory(""))
}

func TestExtractConfidence(t *testing.T) {
	assert.InDelta(t, 0.85, ExtractConfidence("**Confidence**: 0.85"), 1e-9)
	assert.InDelta(t, 0.8, ExtractConfidence("**Confidence:** 0.8 (fairly sure)"), 1e-9)
	assert.InDelta(t, defaultConfidence, ExtractConfidence("no score given"), 1e-9)
	assert.InDelta(t, defaultConfidence, ExtractConfidence("**Confidence:** very high"), 1e-9)
	// Out-of-range values are rejected.
	assert.InDelta(t, defaultConfidence, ExtractConfidence("**Confidence:** 85"), 1e-9)
}

func TestExtractIssues(t *testing.T) {
	critical, major, minor := ExtractIssues(criticalCritiqueResponse)
	require.Len(t, critical, 1)
	assert.Equal(t, "No specific bid percentage given", critical[0])
	require.Len(t, major, 1)
	assert.Equal(t, "Timeline is vague", major[0])
	require.Len(t, minor, 1)
	assert.Equal(t, "Could name the affected ad groups", minor[0])

	critical, major, minor = ExtractIssues(satisfactoryCritiqueResponse)
	assert.Empty(t, critical)
	assert.Empty(t, major)
	assert.Empty(t, minor)
}

func TestExtractBullets(t *testing.T) {
	strengths := ExtractBullets(satisfactoryCritiqueResponse, "Strengths")
	require.Len(t, strengths, 2)
	assert.Equal(t, "Action is concrete with a specific bid change", strengths[0])

	assert.Empty(t, ExtractBullets(satisfactoryCritiqueResponse, "Suggestions"))
}

func TestExtractAlternatives(t *testing.T) {
	alts := ExtractAlternatives(sampleRecommendationResponse)
	require.Len(t, alts, 2)
	assert.Equal(t, WorkflowBudgetReallocation, alts[0].Workflow)
	assert.Equal(t, "does not address auction dynamics", alts[0].WhyNotRecommended)
	assert.Equal(t, WorkflowContinueMonitoring, alts[1].Workflow)
}

func TestParseRecommendation(t *testing.T) {
	rec := parseRecommendation(sampleRecommendationResponse, "analysis text", "test-model")

	assert.Equal(t, WorkflowBidAdjustment, rec.RecommendedWorkflow)
	assert.Equal(t, RiskMedium, rec.RiskLevel)
	assert.InDelta(t, 0.8, rec.Confidence, 1e-9)
	assert.Equal(t, "5-7 days", rec.Timeline)
	assert.Equal(t, "Increase bids by 15%", rec.SpecificActions)
	assert.Equal(t, "analysis text", rec.SignalAnalysis)
	assert.Equal(t, "test-model", rec.ModelVersion)
	assert.Len(t, rec.Alternatives, 2)
}

func TestParseCritique(t *testing.T) {
	c := parseCritique(criticalCritiqueResponse)
	assert.False(t, c.IsSatisfactory)
	assert.Len(t, c.CriticalIssues, 1)
	assert.Equal(t, "Needs a concrete action before approval", c.OverallAssessment)

	c = parseCritique(satisfactoryCritiqueResponse)
	assert.True(t, c.IsSatisfactory)
	assert.Empty(t, c.CriticalIssues)
}
