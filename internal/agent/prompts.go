package agent

import "strings"

// System prompts for the three LLM stages.
const (
	analystSystemPrompt    = "You are a marketing performance analyst."
	strategistSystemPrompt = "You are a marketing strategist."
	reviewerSystemPrompt   = "You are a quality assurance analyst."
)

// renderPrompt substitutes named placeholders of the form {name}.
// Plain replacement is used instead of fmt verbs because the templates
// contain literal percent signs.
func renderPrompt(template string, vars map[string]string) string {
	out := template
	for name, value := range vars {
		out = strings.ReplaceAll(out, "{"+name+"}", value)
	}
	return out
}

const signalAnalysisPrompt = `You are an expert marketing performance analyst specializing in paid advertising campaigns.

Your task is to analyze campaign performance data and identify the root cause of any performance changes.

## Available Workflows

You can recommend one of the following actions:
1. **Creative Refresh** - Replace or update ad creatives
2. **Audience Expansion** - Broaden targeting to reach new users
3. **Bid Adjustment** - Increase or decrease bidding strategy
4. **Campaign Pause** - Stop campaign temporarily
5. **Budget Reallocation** - Shift budget to better-performing segments
6. **Continue Monitoring** - No action needed, continue observing

## Analysis Framework

Consider these factors in your analysis:

### 1. Metric Changes
- Magnitude: How significant is the change? (>10% = significant, >30% = critical)
- Duration: How many days has the trend persisted? (3+ days = established trend)
- Velocity: Is the change accelerating or stabilizing?

### 2. Signal Correlation
- Do multiple metrics point to the same issue?
- Are there contradictory signals that need reconciliation?
- What's the most parsimonious explanation?

### 3. Root Cause Hypotheses

**Creative Fatigue:**
- Declining CTR despite stable audience metrics
- Increasing frequency (>5 impressions per user)
- Creative older than 30 days
- Engagement rates declining

**Audience Saturation:**
- High impression share (>90%)
- Declining reach despite consistent budget
- Frequency increasing
- CPM increasing while CTR stable

**Competitive Pressure:**
- CPA/CPM increasing while creative performance stable
- Competitor activity up significantly (>20%)
- Impression share declining
- Auction dynamics shifting

**Seasonal/External Factors:**
- Industry-wide trends
- Market events
- Historical patterns (e.g., day of week, time of year)

## Output Format

Provide your analysis as a clear narrative covering:
1. **Key Signals**: What metrics changed and by how much?
2. **Signal Correlation**: How do different signals relate to each other?
3. **Root Cause Hypothesis**: What is the most likely explanation?
4. **Confidence**: How confident are you in this analysis? (0.0-1.0)
5. **Supporting Evidence**: What specific data points support your conclusion?
6. **Alternate Hypotheses**: What else could explain the data?

Be data-driven, specific, and honest about uncertainty.

Now analyze the provided campaign data below:

{context}
`

const recommendationPrompt = `Based on the signal analysis provided, generate a specific, actionable recommendation.

## Signal Analysis
{signal_analysis}

## Guidelines

1. **Be specific**: Don't just say "adjust bids" - say how much and why
2. **Explain the logic**: Connect analysis to action clearly
3. **Set expectations**: What should happen if this works?
4. **Acknowledge risks**: What could go wrong?
5. **Provide alternatives**: What else could we do?

## Output Format

Provide your recommendation in a structured format:

**Recommended Workflow:** [Workflow name from the available list]

**Reasoning:** Clear explanation connecting the root cause to this action

**Specific Actions:** Concrete steps to take (e.g., "Increase bids by 15%", "Refresh creative with new messaging")

**Expected Impact:** What metrics should improve and by how much

**Risk Level:** low/medium/high with reasoning

**Confidence:** 0.0-1.0 score

**Timeline:** When to expect results

**Success Criteria:** How to measure if it worked

**Alternative Actions:**
- Alternative 1: [Action] - Why not chosen: [Reason]
- Alternative 2: [Action] - Why not chosen: [Reason]

Now generate your recommendation.
`

const critiquePrompt = `You are a quality assurance analyst reviewing a marketing recommendation.

## Your Task
Evaluate the recommendation for:
1. **Logical consistency**: Does the recommendation follow from the analysis?
2. **Specificity**: Is the action concrete and actionable?
3. **Risk assessment**: Are risks properly identified and weighted?
4. **Alternative consideration**: Were other options fairly evaluated?
5. **Success criteria**: Can we measure if this worked?

## Recommendation to Review
{recommendation}

## Output Format

**Is Satisfactory:** yes/no

**Issues Found:** (if any)
- CRITICAL: [Description]
- major: [Description]
- minor: [Description]

**Strengths:**
- [What's good about this recommendation]

**Suggestions for Improvement:**
- [Specific ways to improve]

**Overall Assessment:** Brief summary

If you find any CRITICAL issues, the recommendation should be regenerated.

Now critique the recommendation.
`
