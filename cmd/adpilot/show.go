package main

import (
	"errors"
	"fmt"

	"adpilot/internal/config"
	"adpilot/internal/store"

	"github.com/spf13/cobra"
)

var listLimit int

// showCmd displays one stored recommendation
var showCmd = &cobra.Command{
	Use:   "show [recommendation-id]",
	Short: "Show a stored recommendation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		db, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer db.Close()

		rec, err := db.Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no recommendation with ID %s", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Print(renderMarkdown(recordMarkdown(rec)))
		return nil
	},
}

// listCmd lists recent stored recommendations
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent recommendations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		db, err := store.Open(cfg.Store.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer db.Close()

		recs, err := db.ListRecent(cmd.Context(), listLimit)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			fmt.Println(dimStyle.Render("No recommendations stored yet."))
			return nil
		}

		fmt.Println(titleStyle.Render("Recent Recommendations"))
		fmt.Println()
		for _, rec := range recs {
			decision := dimStyle.Render(string(rec.Decision))
			switch rec.Decision {
			case store.DecisionApproved:
				decision = okStyle.Render(string(rec.Decision))
			case store.DecisionRejected:
				decision = failStyle.Render(string(rec.Decision))
			}
			fmt.Printf("  %s  %-28s %-22s %s  %s\n",
				rec.ID, rec.CampaignID, rec.Workflow, decision,
				dimStyle.Render(rec.CreatedAt.Local().Format("2006-01-02 15:04")))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "Maximum number of recommendations to list")
}
