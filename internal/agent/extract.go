package agent

import (
	"strconv"
	"strings"
)

// NotSpecified is the sentinel for a section the model's response did
// not contain. Extraction never hard-fails on a missing section.
const NotSpecified = "Not specified"

// defaultConfidence is used when no confidence score can be parsed
// from the response.
const defaultConfidence = 0.75

// ExtractSection pulls the content of a labeled section out of
// semi-structured model text. It matches the label case-insensitively
// on a line containing a colon, captures the remainder of that line
// and following non-empty lines until the next bold heading, and joins
// them with spaces. Returns NotSpecified when the label is absent.
func ExtractSection(text, label string) string {
	labelLower := strings.ToLower(label)

	var content []string
	capture := false
	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.Contains(strings.ToLower(line), labelLower) && strings.Contains(line, ":"):
			capture = true
			_, rest, _ := strings.Cut(line, ":")
			// Drop the closing emphasis of a bold heading.
			if rest = strings.TrimSpace(strings.TrimLeft(rest, "* ")); rest != "" {
				content = append(content, rest)
			}
		case capture && strings.HasPrefix(line, "**"):
			if len(content) > 0 {
				return strings.Join(content, " ")
			}
			return NotSpecified
		case capture && strings.TrimSpace(line) != "":
			content = append(content, strings.TrimSpace(line))
		}
	}

	if len(content) > 0 {
		return strings.Join(content, " ")
	}
	return NotSpecified
}

// ExtractWorkflowType finds the first workflow named anywhere in the
// text, in vocabulary order. Defaults to Continue Monitoring.
func ExtractWorkflowType(text string) WorkflowType {
	lower := strings.ToLower(text)
	for _, w := range WorkflowTypes() {
		if strings.Contains(lower, strings.ToLower(string(w))) {
			return w
		}
	}
	return WorkflowContinueMonitoring
}

// ExtractRiskLevel finds a declared risk level, defaulting to low.
// Markdown emphasis is stripped before matching so "**Risk Level:**
// high" still resolves.
func ExtractRiskLevel(text string) RiskLevel {
	lower := plainLower(text)
	switch {
	case strings.Contains(lower, "risk level: high") || strings.Contains(lower, "risk: high"):
		return RiskHigh
	case strings.Contains(lower, "risk level: medium") || strings.Contains(lower, "risk: medium"):
		return RiskMedium
	default:
		return RiskLow
	}
}

// ExtractSatisfactory reads the critique verdict. An explicit "no"
// means unsatisfactory; an explicit "yes" or an unparseable verdict
// both accept, so a malformed critique can never stall the pipeline.
func ExtractSatisfactory(text string) bool {
	lower := plainLower(text)
	if strings.Contains(lower, "satisfactory: no") {
		return false
	}
	return true
}

// ExtractConfidence parses a 0.0-1.0 confidence score from the
// Confidence section, falling back to defaultConfidence.
func ExtractConfidence(text string) float64 {
	section := ExtractSection(text, "Confidence")
	if section == NotSpecified {
		return defaultConfidence
	}
	for _, token := range strings.Fields(section) {
		token = strings.Trim(token, "()[],;")
		if v, err := strconv.ParseFloat(token, 64); err == nil && v >= 0 && v <= 1 {
			return v
		}
	}
	return defaultConfidence
}

// ExtractIssues reads the severity-tiered issue bullets from critique
// text. Bullets are matched case-insensitively on their severity
// prefix.
func ExtractIssues(text string) (critical, major, minor []string) {
	for _, line := range strings.Split(text, "\n") {
		bullet, ok := strings.CutPrefix(strings.TrimSpace(line), "- ")
		if !ok {
			continue
		}
		lower := strings.ToLower(bullet)
		switch {
		case strings.HasPrefix(lower, "critical:"):
			critical = append(critical, strings.TrimSpace(bullet[len("critical:"):]))
		case strings.HasPrefix(lower, "major:"):
			major = append(major, strings.TrimSpace(bullet[len("major:"):]))
		case strings.HasPrefix(lower, "minor:"):
			minor = append(minor, strings.TrimSpace(bullet[len("minor:"):]))
		}
	}
	return critical, major, minor
}

// ExtractBullets captures the plain bullet items under a labeled
// heading, stopping at the next heading or blank line after the list
// starts.
func ExtractBullets(text, label string) []string {
	labelLower := strings.ToLower(label)

	var items []string
	capture := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.Contains(strings.ToLower(line), labelLower) && strings.Contains(line, ":"):
			capture = true
		case capture && strings.HasPrefix(trimmed, "- "):
			items = append(items, strings.TrimSpace(trimmed[2:]))
		case capture && (strings.HasPrefix(line, "**") || trimmed == "") && len(items) > 0:
			return items
		}
	}
	return items
}

// ExtractAlternatives parses the "Alternative N: [Action] - Why not
// chosen: [Reason]" bullets from recommendation text.
func ExtractAlternatives(text string) []AlternativeAction {
	var alternatives []AlternativeAction
	for _, bullet := range ExtractBullets(text, "Alternative Actions") {
		_, rest, found := strings.Cut(bullet, ":")
		if !found {
			continue
		}
		action, reason, _ := strings.Cut(rest, "- Why not chosen:")
		workflow := ExtractWorkflowType(action)
		alternatives = append(alternatives, AlternativeAction{
			Workflow:          workflow,
			WhyNotRecommended: strings.TrimSpace(reason),
		})
	}
	return alternatives
}

// plainLower lowercases text with markdown emphasis markers removed.
func plainLower(text string) string {
	return strings.ToLower(strings.ReplaceAll(text, "*", ""))
}
