package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Dataset is a golden test suite loaded from JSON.
type Dataset struct {
	DatasetName string     `json:"dataset_name"`
	Version     string     `json:"version"`
	TestCases   []TestCase `json:"test_cases"`
}

// TestCase is one golden case: an input, and an expected-output object
// that carries both the expectation fields (keywords,
// recommendation_types, required_fields) and the reference output
// content.
type TestCase struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Input          map[string]any `json:"input"`
	ExpectedOutput map[string]any `json:"expected_output"`
}

// CaseResult is the scored outcome of one case.
type CaseResult struct {
	TestCaseID   string  `json:"test_case_id"`
	TestCaseName string  `json:"test_case_name"`
	Metrics      Metrics `json:"metrics"`
	Passed       bool    `json:"passed"`
}

// DatasetResult is the document written to the results directory; the
// threshold gate consumes these files.
type DatasetResult struct {
	Dataset    string       `json:"dataset"`
	Timestamp  time.Time    `json:"timestamp"`
	Results    []CaseResult `json:"results"`
	Aggregated Aggregated   `json:"aggregated"`
}

// CaseRunner produces the actual output for a test case. A nil runner
// evaluates the reference output against itself, which exercises the
// scoring path without invoking a model.
type CaseRunner func(ctx context.Context, tc TestCase) (map[string]any, error)

// LoadDataset reads a golden dataset by name from the datasets
// directory.
func LoadDataset(datasetsDir, name string) (Dataset, error) {
	path := filepath.Join(datasetsDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("failed to load dataset %s: %w", name, err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("failed to parse dataset %s: %w", name, err)
	}
	return ds, nil
}

// EvaluateDataset scores every case in the dataset and aggregates.
func EvaluateDataset(ctx context.Context, ds Dataset, runner CaseRunner, logger *zap.Logger) (*DatasetResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("starting golden dataset evaluation",
		zap.String("dataset", ds.DatasetName),
		zap.Int("cases", len(ds.TestCases)))

	results := make([]CaseResult, 0, len(ds.TestCases))
	for i, tc := range ds.TestCases {
		logger.Info("evaluating test case",
			zap.String("case_id", tc.ID),
			zap.Int("index", i+1),
			zap.Int("total", len(ds.TestCases)))

		output := tc.ExpectedOutput
		if runner != nil {
			var err error
			output, err = runner(ctx, tc)
			if err != nil {
				return nil, fmt.Errorf("case %s failed: %w", tc.ID, err)
			}
		}

		metrics := ScoreCase(output, tc.ExpectedOutput)
		results = append(results, CaseResult{
			TestCaseID:   tc.ID,
			TestCaseName: tc.Name,
			Metrics:      metrics,
			Passed:       metrics.Passed(),
		})
	}

	dr := &DatasetResult{
		Dataset:    ds.DatasetName,
		Timestamp:  time.Now(),
		Results:    results,
		Aggregated: aggregateCases(results),
	}

	logger.Info("golden dataset evaluation complete",
		zap.String("dataset", ds.DatasetName),
		zap.Float64("pass_rate", dr.Aggregated.PassRate))
	return dr, nil
}

// aggregateCases folds one dataset's case results into a summary by
// delegating to Aggregate.
func aggregateCases(results []CaseResult) Aggregated {
	return Aggregate([]DatasetResult{{Results: results}})
}

// WriteResult saves a dataset result as a timestamped JSON file in the
// results directory and returns the path.
func WriteResult(resultsDir string, dr *DatasetResult) (string, error) {
	if err := os.MkdirAll(resultsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", dr.Dataset, dr.Timestamp.Format("20060102_150405"))
	path := filepath.Join(resultsDir, name)

	data, err := json.MarshalIndent(dr, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}
	return path, nil
}
