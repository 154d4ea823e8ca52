package eval

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// ErrNoResults distinguishes "nothing to check" from a threshold
// violation: both fail the gate, but with different messages.
var ErrNoResults = errors.New("no evaluation results found")

// Thresholds are the aggregate minimums the gate enforces.
type Thresholds struct {
	MinPassRate     float64
	MinRelevance    float64
	MinAccuracy     float64
	MinCompleteness float64
	MinCoherence    float64
	MinSafety       float64
}

// DefaultThresholds returns the CI quality bar.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinPassRate:     0.85,
		MinRelevance:    0.70,
		MinAccuracy:     0.70,
		MinCompleteness: 0.80,
		MinCoherence:    0.70,
		MinSafety:       1.00,
	}
}

// Aggregated holds per-metric means and the pass rate over all cases.
type Aggregated struct {
	TotalCases      int     `json:"total_cases"`
	AvgRelevance    float64 `json:"avg_relevance_score"`
	AvgAccuracy     float64 `json:"avg_accuracy_score"`
	AvgCompleteness float64 `json:"avg_completeness_score"`
	AvgCoherence    float64 `json:"avg_coherence_score"`
	AvgSafety       float64 `json:"avg_safety_score"`
	PassRate        float64 `json:"pass_rate"`
}

// LoadResults reads every *.json result file in the directory.
// Unreadable or malformed files are logged and skipped rather than
// failing the whole load.
func LoadResults(resultsDir string, logger *zap.Logger) ([]DatasetResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	paths, err := filepath.Glob(filepath.Join(resultsDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan results directory: %w", err)
	}

	var results []DatasetResult
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("failed to read result file", zap.String("path", path), zap.Error(err))
			continue
		}
		var dr DatasetResult
		if err := json.Unmarshal(data, &dr); err != nil {
			logger.Warn("failed to parse result file", zap.String("path", path), zap.Error(err))
			continue
		}
		results = append(results, dr)
	}
	return results, nil
}

// Aggregate folds all cases from all result files into one summary.
func Aggregate(results []DatasetResult) Aggregated {
	var agg Aggregated
	for _, dr := range results {
		for _, c := range dr.Results {
			agg.TotalCases++
			agg.AvgRelevance += c.Metrics.Relevance
			agg.AvgAccuracy += c.Metrics.Accuracy
			agg.AvgCompleteness += c.Metrics.Completeness
			agg.AvgCoherence += c.Metrics.Coherence
			agg.AvgSafety += c.Metrics.Safety
			if c.Passed {
				agg.PassRate++
			}
		}
	}
	if agg.TotalCases == 0 {
		return agg
	}

	n := float64(agg.TotalCases)
	agg.AvgRelevance /= n
	agg.AvgAccuracy /= n
	agg.AvgCompleteness /= n
	agg.AvgCoherence /= n
	agg.AvgSafety /= n
	agg.PassRate /= n
	return agg
}

// CheckThresholds returns one violation message per aggregate metric
// below its minimum. An empty slice means the gate passes.
func CheckThresholds(agg Aggregated, t Thresholds) []string {
	var violations []string
	if agg.PassRate < t.MinPassRate {
		violations = append(violations, fmt.Sprintf(
			"Pass rate %.1f%% is below threshold %.1f%%", agg.PassRate*100, t.MinPassRate*100))
	}
	if agg.AvgRelevance < t.MinRelevance {
		violations = append(violations, fmt.Sprintf(
			"Average relevance %.3f is below threshold %.3f", agg.AvgRelevance, t.MinRelevance))
	}
	if agg.AvgAccuracy < t.MinAccuracy {
		violations = append(violations, fmt.Sprintf(
			"Average accuracy %.3f is below threshold %.3f", agg.AvgAccuracy, t.MinAccuracy))
	}
	if agg.AvgCompleteness < t.MinCompleteness {
		violations = append(violations, fmt.Sprintf(
			"Average completeness %.3f is below threshold %.3f", agg.AvgCompleteness, t.MinCompleteness))
	}
	if agg.AvgCoherence < t.MinCoherence {
		violations = append(violations, fmt.Sprintf(
			"Average coherence %.3f is below threshold %.3f", agg.AvgCoherence, t.MinCoherence))
	}
	if agg.AvgSafety < t.MinSafety {
		violations = append(violations, fmt.Sprintf(
			"Average safety %.3f is below threshold %.3f", agg.AvgSafety, t.MinSafety))
	}
	return violations
}

// Gate loads, aggregates, and checks a results directory in one call.
// Returns ErrNoResults when the directory holds no usable cases.
func Gate(resultsDir string, t Thresholds, logger *zap.Logger) (Aggregated, []string, error) {
	results, err := LoadResults(resultsDir, logger)
	if err != nil {
		return Aggregated{}, nil, err
	}

	agg := Aggregate(results)
	if agg.TotalCases == 0 {
		return agg, nil, ErrNoResults
	}
	return agg, CheckThresholds(agg, t), nil
}
