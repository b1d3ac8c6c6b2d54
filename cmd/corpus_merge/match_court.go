package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/corpus-merge/internal/observability"
)

var matchCourtCmd = &cobra.Command{
	Use:   "match-court NAME",
	Short: "Resolve a court name to a court id",
	Long:  "Resolves a court name, optionally with the path of the document it came from, to a court id. Prints \"unresolved\" when no stage matches.",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatchCourt,
}

var matchCourtPath string

func init() {
	matchCourtCmd.Flags().StringVar(&matchCourtPath, "path", "", "Path of the source document, used to infer state courts")

	rootCmd.AddCommand(matchCourtCmd)
}

func runMatchCourt(cmd *cobra.Command, args []string) error {
	resolver, err := newResolver(cfg)
	if err != nil {
		return err
	}

	result := resolver.Resolve(args[0], matchCourtPath)
	if verbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintCourt(args[0], result)
		return nil
	}
	if !result.Resolved() {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "unresolved")
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), result.CourtID)
	return err
}
