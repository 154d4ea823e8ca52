package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"adpilot/internal/agent"
	"adpilot/internal/config"
	"adpilot/internal/contextbuilder"
	"adpilot/internal/llm"
	"adpilot/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeScenario string
	analyzeNoSave   bool
)

// analyzeCmd runs the full analysis pipeline for one campaign
var analyzeCmd = &cobra.Command{
	Use:   "analyze [campaign-id]",
	Short: "Analyze a campaign and recommend an optimization workflow",
	Long: `Runs the full pipeline for one campaign:
  1. Collect campaign, creative, and competitor signals
  2. Analyze the signals for a root cause
  3. Generate a workflow recommendation
  4. Critique the recommendation, regenerating on critical issues

Pass a campaign ID, or use --scenario to run against a built-in demo
scenario. The resulting recommendation is stored pending human review.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeScenario, "scenario", "", "Run a named demo scenario instead of live collection")
	analyzeCmd.Flags().BoolVar(&analyzeNoSave, "no-save", false, "Do not persist the recommendation")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeScenario == "" && len(args) == 0 {
		return fmt.Errorf("provide a campaign ID or --scenario")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := llm.NewClientFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
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

	var result *agent.RunResult
	if analyzeScenario != "" {
		fmt.Println(titleStyle.Render("Analyzing scenario: " + analyzeScenario))
		result, err = a.AnalyzeScenario(ctx, analyzeScenario)
	} else {
		fmt.Println(titleStyle.Render("Analyzing campaign: " + args[0]))
		result, err = a.AnalyzeCampaign(ctx, args[0])
	}
	if err != nil {
		return err
	}

	fmt.Print(renderMarkdown(resultMarkdown(result)))

	if len(result.Errors) > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Run completed with %d error(s)", len(result.Errors))))
	}

	if analyzeNoSave {
		return nil
	}

	rec, ok := store.RecordFromResult(result)
	if !ok {
		fmt.Println(dimStyle.Render("No recommendation produced; nothing saved."))
		return nil
	}

	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	id, err := db.Save(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to save recommendation: %w", err)
	}
	logger.Info("recommendation saved", zap.String("id", id))
	fmt.Println(dimStyle.Render("Saved as " + id + " (pending review)"))
	return nil
}
