package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/corpus-merge/internal/observability"
	"github.com/jonathan/corpus-merge/internal/types"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "List pending review entries",
	Long:  "Lists the field conflicts, ambiguous matches and unresolved courts waiting for review, oldest first.",
	RunE:  runReviews,
}

var (
	reviewsKind        string
	reviewsLimit       int
	reviewsJSON        bool
	reviewsDatabaseURL string
	reviewsSQLitePath  string
)

func init() {
	reviewsCmd.Flags().StringVar(&reviewsKind, "kind", "", "Only list this kind (field_conflict, ambiguous_match, court_unresolved)")
	reviewsCmd.Flags().IntVar(&reviewsLimit, "limit", 50, "Maximum number of entries to list")
	reviewsCmd.Flags().BoolVar(&reviewsJSON, "json", false, "Print entries as JSON")
	addDatabaseFlags(reviewsCmd, &reviewsDatabaseURL, &reviewsSQLitePath)

	rootCmd.AddCommand(reviewsCmd)
}

func runReviews(cmd *cobra.Command, _ []string) error {
	switch reviewsKind {
	case "", types.ReviewFieldConflict, types.ReviewAmbiguousMatch, types.ReviewCourtUnresolved:
	default:
		return fmt.Errorf("unknown review kind %q", reviewsKind)
	}

	c := cfg
	applyDatabaseFlags(cmd, &c, reviewsDatabaseURL, reviewsSQLitePath)

	st, closeStore, err := openStore(cmd.Context(), c)
	if err != nil {
		return err
	}
	defer closeStore()

	reviews, err := st.ListPendingReviews(cmd.Context(), reviewsKind, reviewsLimit)
	if err != nil {
		return err
	}

	if reviewsJSON {
		if reviews == nil {
			reviews = []types.PendingReview{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(reviews)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintReviews(reviews)
	return nil
}
