package agent

import (
	"context"
	"sync"
)

// MockLLMClient routes completions through configurable per-stage
// functions, keyed on the system prompt.
type MockLLMClient struct {
	mu sync.Mutex

	AnalyzeFunc   func(call int) (string, error)
	RecommendFunc func(call int) (string, error)
	CritiqueFunc  func(call int) (string, error)

	AnalyzeCalls   int
	RecommendCalls int
	CritiqueCalls  int
}

func (m *MockLLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	return m.CompleteWithSystem(ctx, "", prompt)
}

func (m *MockLLMClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch systemPrompt {
	case analystSystemPrompt:
		m.AnalyzeCalls++
		if m.AnalyzeFunc != nil {
			return m.AnalyzeFunc(m.AnalyzeCalls)
		}
	case strategistSystemPrompt:
		m.RecommendCalls++
		if m.RecommendFunc != nil {
			return m.RecommendFunc(m.RecommendCalls)
		}
	case reviewerSystemPrompt:
		m.CritiqueCalls++
		if m.CritiqueFunc != nil {
			return m.CritiqueFunc(m.CritiqueCalls)
		}
	}
	return "", nil
}

// Canned stage responses used across workflow tests.

const sampleAnalysisResponse = `**Key Signals**: CPA up 32.5% while CTR stable at 2.8%
**Signal Correlation**: Rising CPA with stable creative metrics points outward
**Root Cause Hypothesis**: Competitive pressure in the auction
**Confidence**: 0.85
**Supporting Evidence**: Auction competition score 87.5/100, 3 new entrants
**Alternate Hypotheses**: Seasonal demand shift
`

const sampleRecommendationResponse = `**Recommended Workflow:** Bid Adjustment

**Reasoning:** Rising CPA is driven by auction competition, not creative decay

**Specific Actions:** Increase bids by 15% on top-performing ad groups

**Expected Impact:** CPA should stabilize within 10% of the prior period

**Risk Level:** medium - higher bids raise spend velocity

**Confidence:** 0.8

**Timeline:** 5-7 days

**Success Criteria:** CPA back under $70 with stable impression share

**Alternative Actions:**
- Alternative 1: Budget Reallocation - Why not chosen: does not address auction dynamics
- Alternative 2: Continue Monitoring - Why not chosen: losing impression share daily
`

const satisfactoryCritiqueResponse = `**Is Satisfactory:** yes

**Strengths:**
- Action is concrete with a specific bid change
- Success criteria are measurable

**Overall Assessment:** Sound recommendation grounded in the analysis
`

const criticalCritiqueResponse = `**Is Satisfactory:** no

**Issues Found:**
- CRITICAL: No specific bid percentage given
- major: Timeline is vague
- minor: Could name the affected ad groups

**Overall Assessment:** Needs a concrete action before approval
`
