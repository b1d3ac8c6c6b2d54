package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/corpus-merge/internal/importer"
	"github.com/jonathan/corpus-merge/internal/markup"
	"github.com/jonathan/corpus-merge/internal/observability"
	"github.com/jonathan/corpus-merge/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Parse one case-law JSON document and print the normalized cluster",
	Long:  "Validates and parses one case-law JSON document, resolves its court and prints the cluster an import would create from it, as JSON. Nothing is written to the database.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	doc, err := source.ParseCaseLaw(filepath.ToSlash(path), data)
	if err != nil {
		return err
	}
	body, err := markup.ParseCasebody(doc.Casebody)
	if err != nil {
		return err
	}
	date, granularity, err := markup.ParsePartialDate(doc.DecisionDate)
	if err != nil {
		return err
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		return err
	}
	court := resolver.Resolve(doc.CourtName, doc.Key)

	if verbose {
		p := observability.NewPrinter(cmd.OutOrStdout())
		p.PrintCasebody(doc, body)
		p.PrintCourt(doc.CourtName, court)
	}

	cluster := importer.BuildCluster(doc, body, date, granularity, court)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(cluster); err != nil {
		return fmt.Errorf("failed to encode cluster: %w", err)
	}
	return nil
}
