package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"adpilot/internal/agent"
	"adpilot/internal/config"
	"adpilot/internal/contextbuilder"
	"adpilot/internal/eval"
	"adpilot/internal/llm"

	"github.com/spf13/cobra"
)

var (
	evalDatasetsDir string
	evalResultsDir  string
	evalLive        bool
)

// evalCmd runs a golden dataset through the evaluator
var evalCmd = &cobra.Command{
	Use:   "eval [dataset]",
	Short: "Evaluate a golden dataset and write scored results",
	Long: `Scores each test case in a golden dataset on relevance, accuracy,
completeness, coherence, and safety, then writes a timestamped result
file for the quality gate.

By default each case's reference output is scored against itself, which
validates the dataset and the scoring pipeline without model calls.
With --live, the agent runs each case's scenario and the actual output
is scored instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalDatasetsDir, "datasets-dir", "eval/datasets", "Directory containing golden datasets")
	evalCmd.Flags().StringVar(&evalResultsDir, "results-dir", "eval/results", "Directory to write result files")
	evalCmd.Flags().BoolVar(&evalLive, "live", false, "Run the agent for each case instead of scoring reference output")
}

func runEval(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ds, err := eval.LoadDataset(evalDatasetsDir, args[0])
	if err != nil {
		return err
	}

	var runner eval.CaseRunner
	if evalLive {
		runner, err = liveRunner(ctx)
		if err != nil {
			return err
		}
	}

	result, err := eval.EvaluateDataset(ctx, ds, runner, logger)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Dataset: " + result.Dataset))
	fmt.Println()
	for _, cr := range result.Results {
		status := okStyle.Render("PASS")
		if !cr.Passed {
			status = failStyle.Render("FAIL")
		}
		fmt.Printf("  %s  %-32s rel=%.2f acc=%.2f comp=%.2f coh=%.2f safe=%.2f\n",
			status, cr.TestCaseName,
			cr.Metrics.Relevance, cr.Metrics.Accuracy,
			cr.Metrics.Completeness, cr.Metrics.Coherence,
			cr.Metrics.Safety)
	}
	fmt.Println()
	fmt.Printf("Pass rate: %.1f%% (%d cases)\n",
		result.Aggregated.PassRate*100, result.Aggregated.TotalCases)

	path, err := eval.WriteResult(evalResultsDir, result)
	if err != nil {
		return err
	}
	fmt.Println(dimStyle.Render("Results written to " + path))
	return nil
}

// liveRunner builds a CaseRunner that analyzes each case's scenario
// with the real agent and shapes the result for scoring.
func liveRunner(ctx context.Context) (eval.CaseRunner, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	client, err := llm.NewClientFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	builder := contextbuilder.NewBuilder(contextbuilder.BuilderConfig{
		CacheTTL:   cfg.GetCacheTTL(),
		WindowDays: cfg.Collector.WindowDays,
	}, logger)
	a := agent.New(client, builder, agent.Config{
		MaxIterations:       cfg.Agent.MaxIterations,
		ConfidenceThreshold: cfg.Agent.ConfidenceThreshold,
		RunTimeout:          cfg.GetRunTimeout(),
		Model:               cfg.LLM.Model,
	}, logger)

	return func(ctx context.Context, tc eval.TestCase) (map[string]any, error) {
		scenario, _ := tc.Input["scenario"].(string)
		if scenario == "" {
			return nil, fmt.Errorf("test case %s has no scenario input", tc.ID)
		}
		result, err := a.AnalyzeScenario(ctx, scenario)
		if err != nil {
			return nil, err
		}

		out := map[string]any{}
		if result.Analysis != nil {
			out["analysis"] = result.Analysis.KeySignals
			out["root_cause"] = result.Analysis.RootCause
		}
		if rec := result.Recommendation; rec != nil {
			out["recommendations"] = []any{map[string]any{
				"type":      string(rec.RecommendedWorkflow),
				"reasoning": rec.Reasoning,
			}}
			out["reasoning"] = rec.Reasoning
			out["confidence"] = rec.Confidence
		}
		return out, nil
	}, nil
}
