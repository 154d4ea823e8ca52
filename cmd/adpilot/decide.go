package main

import (
	"errors"
	"fmt"

	"adpilot/internal/config"
	"adpilot/internal/store"

	"github.com/spf13/cobra"
)

var (
	decideApprove  bool
	decideReject   bool
	decideFeedback string
)

// decideCmd records the human verdict on a recommendation
var decideCmd = &cobra.Command{
	Use:   "decide [recommendation-id]",
	Short: "Approve or reject a stored recommendation",
	Long: `Records the human-in-the-loop verdict on a recommendation. Nothing is
executed automatically; the decision and optional feedback are stored
alongside the recommendation for audit.`,
	Args: cobra.ExactArgs(1),
	RunE: runDecide,
}

func init() {
	decideCmd.Flags().BoolVar(&decideApprove, "approve", false, "Approve the recommendation")
	decideCmd.Flags().BoolVar(&decideReject, "reject", false, "Reject the recommendation")
	decideCmd.Flags().StringVar(&decideFeedback, "feedback", "", "Optional feedback to store with the decision")
}

func runDecide(cmd *cobra.Command, args []string) error {
	if decideApprove == decideReject {
		return fmt.Errorf("specify exactly one of --approve or --reject")
	}
	status := store.DecisionApproved
	if decideReject {
		status = store.DecisionRejected
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	if err := db.Decide(cmd.Context(), args[0], status, decideFeedback); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no recommendation with ID %s", args[0])
		}
		return err
	}

	if status == store.DecisionApproved {
		fmt.Println(okStyle.Render("Recommendation " + args[0] + " approved"))
	} else {
		fmt.Println(failStyle.Render("Recommendation " + args[0] + " rejected"))
	}
	return nil
}
