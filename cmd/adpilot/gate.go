package main

import (
	"errors"
	"fmt"
	"os"

	"adpilot/internal/config"
	"adpilot/internal/eval"

	"github.com/spf13/cobra"
)

var (
	gateResultsDir string

	gateMinPassRate     float64
	gateMinRelevance    float64
	gateMinAccuracy     float64
	gateMinCompleteness float64
	gateMinCoherence    float64
	gateMinSafety       float64
)

// gateCmd checks aggregated evaluation results against quality thresholds
var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Check evaluation results against quality thresholds",
	Long: `Aggregates every result file in the results directory and fails if any
metric falls below its threshold. Intended for CI: exits non-zero when
the quality bar is not met or when no results exist.

Thresholds default to the config file values; flags override both.`,
	RunE: runGate,
}

func init() {
	gateCmd.Flags().StringVar(&gateResultsDir, "results-dir", "eval/results", "Directory containing result files")
	gateCmd.Flags().Float64Var(&gateMinPassRate, "min-pass-rate", -1, "Minimum pass rate (0-1)")
	gateCmd.Flags().Float64Var(&gateMinRelevance, "min-relevance", -1, "Minimum average relevance score")
	gateCmd.Flags().Float64Var(&gateMinAccuracy, "min-accuracy", -1, "Minimum average accuracy score")
	gateCmd.Flags().Float64Var(&gateMinCompleteness, "min-completeness", -1, "Minimum average completeness score")
	gateCmd.Flags().Float64Var(&gateMinCoherence, "min-coherence", -1, "Minimum average coherence score")
	gateCmd.Flags().Float64Var(&gateMinSafety, "min-safety", -1, "Minimum average safety score")
}

// gateThresholds resolves thresholds from config, then flag overrides.
func gateThresholds(cfg *config.Config) eval.Thresholds {
	t := eval.Thresholds{
		MinPassRate:     cfg.Eval.MinPassRate,
		MinRelevance:    cfg.Eval.MinRelevance,
		MinAccuracy:     cfg.Eval.MinAccuracy,
		MinCompleteness: cfg.Eval.MinCompleteness,
		MinCoherence:    cfg.Eval.MinCoherence,
		MinSafety:       cfg.Eval.MinSafety,
	}
	if gateMinPassRate >= 0 {
		t.MinPassRate = gateMinPassRate
	}
	if gateMinRelevance >= 0 {
		t.MinRelevance = gateMinRelevance
	}
	if gateMinAccuracy >= 0 {
		t.MinAccuracy = gateMinAccuracy
	}
	if gateMinCompleteness >= 0 {
		t.MinCompleteness = gateMinCompleteness
	}
	if gateMinCoherence >= 0 {
		t.MinCoherence = gateMinCoherence
	}
	if gateMinSafety >= 0 {
		t.MinSafety = gateMinSafety
	}
	return t
}

func runGate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	agg, violations, err := eval.Gate(gateResultsDir, gateThresholds(cfg), logger)
	if errors.Is(err, eval.ErrNoResults) {
		fmt.Println(failStyle.Render("No evaluation results found in " + gateResultsDir))
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Evaluation Summary"))
	fmt.Println()
	fmt.Printf("  Total Cases:      %d\n", agg.TotalCases)
	fmt.Printf("  Pass Rate:        %.1f%%\n", agg.PassRate*100)
	fmt.Printf("  Avg Relevance:    %.3f\n", agg.AvgRelevance)
	fmt.Printf("  Avg Accuracy:     %.3f\n", agg.AvgAccuracy)
	fmt.Printf("  Avg Completeness: %.3f\n", agg.AvgCompleteness)
	fmt.Printf("  Avg Coherence:    %.3f\n", agg.AvgCoherence)
	fmt.Printf("  Avg Safety:       %.3f\n", agg.AvgSafety)
	fmt.Println()

	if len(violations) == 0 {
		fmt.Println(okStyle.Render("All quality thresholds met"))
		return nil
	}

	fmt.Println(failStyle.Render("Quality thresholds violated:"))
	for _, v := range violations {
		fmt.Println("  - " + v)
	}
	os.Exit(1)
	return nil
}
