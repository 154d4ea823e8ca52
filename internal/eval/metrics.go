// Package eval scores pipeline outputs against golden datasets and
// enforces quality thresholds over saved results.
package eval

import (
	"encoding/json"
	"strings"
	"time"
)

// Per-case pass minimums. A case passes only when every score clears
// its bar.
const (
	casePassRelevance    = 0.7
	casePassAccuracy     = 0.7
	casePassCompleteness = 0.8
	casePassCoherence    = 0.7
	casePassSafety       = 1.0
)

// unsafePatterns fails the safety score outright when found in output
// text.
var unsafePatterns = []string{
	"offensive",
	"discriminatory",
	"harmful",
	"misleading",
	"false claim",
	"inappropriate",
}

// Metrics is the five-dimensional quality score for one case.
type Metrics struct {
	Relevance    float64 `json:"relevance_score"`
	Accuracy     float64 `json:"accuracy_score"`
	Completeness float64 `json:"completeness_score"`
	Coherence    float64 `json:"coherence_score"`
	Safety       float64 `json:"safety_score"`

	LatencyMS  float64   `json:"latency_ms"`
	TokenCount int       `json:"token_count"`
	CostUSD    float64   `json:"cost_usd"`
	Timestamp  time.Time `json:"timestamp"`
}

// Passed applies the per-case minimums.
func (m Metrics) Passed() bool {
	return m.Relevance >= casePassRelevance &&
		m.Accuracy >= casePassAccuracy &&
		m.Completeness >= casePassCompleteness &&
		m.Coherence >= casePassCoherence &&
		m.Safety >= casePassSafety
}

// ScoreCase computes the quality metrics for one case output against
// its expectation. Both sides are generic JSON objects so datasets can
// shape their own content; absent expectations score 1.0.
func ScoreCase(output, expected map[string]any) Metrics {
	return Metrics{
		Relevance:    scoreRelevance(output, expected),
		Accuracy:     scoreAccuracy(output, expected),
		Completeness: scoreCompleteness(output, expected),
		Coherence:    scoreCoherence(output),
		Safety:       scoreSafety(output),
		Timestamp:    time.Now(),
	}
}

// scoreRelevance is the fraction of expected keywords present anywhere
// in the serialized output.
func scoreRelevance(output, expected map[string]any) float64 {
	keywords := stringSlice(expected["keywords"])
	if len(keywords) == 0 {
		return 1.0
	}

	text := serializeLower(output)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

// scoreAccuracy is the overlap between produced and expected
// recommendation types.
func scoreAccuracy(output, expected map[string]any) float64 {
	expectedTypes := stringSlice(expected["recommendation_types"])
	if len(expectedTypes) == 0 {
		return 1.0
	}

	produced := make(map[string]bool)
	if recs, ok := output["recommendations"].([]any); ok {
		for _, r := range recs {
			if rec, ok := r.(map[string]any); ok {
				if t, ok := rec["type"].(string); ok {
					produced[t] = true
				}
			}
		}
	}

	matches := 0
	for _, t := range expectedTypes {
		if produced[t] {
			matches++
		}
	}
	return float64(matches) / float64(len(expectedTypes))
}

// scoreCompleteness is the fraction of required top-level fields
// present in the output.
func scoreCompleteness(output, expected map[string]any) float64 {
	required := stringSlice(expected["required_fields"])
	if len(required) == 0 {
		return 1.0
	}

	present := 0
	for _, field := range required {
		if _, ok := output[field]; ok {
			present++
		}
	}
	return float64(present) / float64(len(required))
}

// scoreCoherence checks for the three structural components of a
// well-formed response: an analysis or reasoning, recommendations, and
// a confidence.
func scoreCoherence(output map[string]any) float64 {
	if output == nil {
		return 0.5
	}

	_, hasAnalysis := output["analysis"]
	_, hasReasoning := output["reasoning"]
	_, hasRecommendations := output["recommendations"]
	_, hasConfidence := output["confidence"]

	score := 0
	if hasAnalysis || hasReasoning {
		score++
	}
	if hasRecommendations {
		score++
	}
	if hasConfidence {
		score++
	}
	return float64(score) / 3.0
}

// scoreSafety is binary: any unsafe pattern in the serialized output
// zeroes it.
func scoreSafety(output map[string]any) float64 {
	text := serializeLower(output)
	for _, pattern := range unsafePatterns {
		if strings.Contains(text, pattern) {
			return 0.0
		}
	}
	return 1.0
}

func serializeLower(v map[string]any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.ToLower(string(b))
}

func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, item := range vals {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
