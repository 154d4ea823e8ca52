package main

import (
	"fmt"
	"strings"

	"adpilot/internal/agent"
	"adpilot/internal/store"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderMarkdown pretty-prints markdown for the terminal, falling back
// to the raw text when the renderer is unavailable.
func renderMarkdown(md string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return md
	}
	out, err := renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// resultMarkdown formats a completed run as a markdown report.
func resultMarkdown(res *agent.RunResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Campaign Analysis: %s\n\n", res.CampaignID)

	if res.Analysis != nil {
		b.WriteString("## Signal Analysis\n\n")
		fmt.Fprintf(&b, "**Root Cause:** %s\n\n", res.Analysis.RootCause)
		fmt.Fprintf(&b, "**Key Signals:** %s\n\n", res.Analysis.KeySignals)
		fmt.Fprintf(&b, "**Confidence:** %.0f%%\n\n", res.Analysis.Confidence*100)
	}

	if rec := res.Recommendation; rec != nil {
		b.WriteString("## Recommendation\n\n")
		fmt.Fprintf(&b, "**Workflow:** %s\n\n", rec.RecommendedWorkflow)
		fmt.Fprintf(&b, "**Risk:** %s | **Confidence:** %.0f%% | **Timeline:** %s\n\n",
			rec.RiskLevel, rec.Confidence*100, rec.Timeline)
		fmt.Fprintf(&b, "**Reasoning:** %s\n\n", rec.Reasoning)
		fmt.Fprintf(&b, "**Specific Actions:** %s\n\n", rec.SpecificActions)
		fmt.Fprintf(&b, "**Expected Impact:** %s\n\n", rec.ExpectedImpact)
		fmt.Fprintf(&b, "**Success Criteria:** %s\n\n", rec.SuccessCriteria)

		if len(rec.Alternatives) > 0 {
			b.WriteString("### Alternatives Considered\n\n")
			for _, alt := range rec.Alternatives {
				fmt.Fprintf(&b, "- **%s** — %s\n", alt.Workflow, alt.WhyNotRecommended)
			}
			b.WriteString("\n")
		}
	}

	if crit := res.Critique; crit != nil {
		b.WriteString("## Review\n\n")
		if crit.IsSatisfactory {
			b.WriteString("Verdict: satisfactory\n\n")
		} else {
			b.WriteString("Verdict: not satisfactory\n\n")
		}
		if crit.OverallAssessment != "" {
			fmt.Fprintf(&b, "%s\n\n", crit.OverallAssessment)
		}
		for _, issue := range crit.CriticalIssues {
			fmt.Fprintf(&b, "- CRITICAL: %s\n", issue)
		}
		for _, issue := range crit.MajorIssues {
			fmt.Fprintf(&b, "- Major: %s\n", issue)
		}
		if len(crit.CriticalIssues)+len(crit.MajorIssues) > 0 {
			b.WriteString("\n")
		}
	}

	if len(res.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// recordMarkdown formats a stored recommendation for display.
func recordMarkdown(rec store.Record) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Recommendation %s\n\n", rec.ID)
	fmt.Fprintf(&b, "**Campaign:** %s | **Created:** %s\n\n",
		rec.CampaignID, rec.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "**Decision:** %s", rec.Decision)
	if rec.DecisionFeedback != "" {
		fmt.Fprintf(&b, " — %s", rec.DecisionFeedback)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "**Workflow:** %s\n\n", rec.Workflow)
	fmt.Fprintf(&b, "**Risk:** %s | **Confidence:** %.0f%% | **Timeline:** %s\n\n",
		rec.RiskLevel, rec.Confidence*100, rec.Timeline)
	fmt.Fprintf(&b, "**Root Cause:** %s\n\n", rec.RootCause)
	fmt.Fprintf(&b, "**Reasoning:** %s\n\n", rec.Reasoning)
	fmt.Fprintf(&b, "**Specific Actions:** %s\n\n", rec.SpecificActions)
	fmt.Fprintf(&b, "**Expected Impact:** %s\n\n", rec.ExpectedImpact)
	fmt.Fprintf(&b, "**Success Criteria:** %s\n\n", rec.SuccessCriteria)

	if len(rec.Alternatives) > 0 {
		b.WriteString("### Alternatives Considered\n\n")
		for _, alt := range rec.Alternatives {
			fmt.Fprintf(&b, "- **%s** — %s\n", alt.Workflow, alt.WhyNotRecommended)
		}
		b.WriteString("\n")
	}

	return b.String()
}
