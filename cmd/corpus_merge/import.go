package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/corpus-merge/internal/casename"
	"github.com/jonathan/corpus-merge/internal/config"
	"github.com/jonathan/corpus-merge/internal/importer"
	"github.com/jonathan/corpus-merge/internal/observability"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a batch of case-law documents",
	Long: `Reads case-law JSON documents from a directory or an S3 bucket, resolves each document's court, matches it against existing clusters and creates or reconciles clusters. Field conflicts and ambiguous matches are queued for review.

A failing document never stops the batch; the report lists what happened to each.`,
	RunE: runImportCmd,
}

var (
	importDir            string
	importS3Bucket       string
	importS3Prefix       string
	importS3Region       string
	importReporter       string
	importVolumes        []string
	importPage           string
	importCourt          string
	importBankruptcy     bool
	importMakeSearchable bool
	importWorkers        int
	importThreshold      int
	importDatabaseURL    string
	importSQLitePath     string
	importJSON           bool
)

func init() {
	importCmd.Flags().StringVar(&importDir, "dir", "", "Directory of case-law JSON documents (mutually exclusive with --s3-bucket)")
	importCmd.Flags().StringVar(&importS3Bucket, "s3-bucket", "", "S3 bucket holding case-law JSON documents")
	importCmd.Flags().StringVar(&importS3Prefix, "s3-prefix", "", "Key prefix inside the S3 bucket")
	importCmd.Flags().StringVar(&importS3Region, "s3-region", "", "AWS region of the bucket (defaults to AWS_REGION env var)")
	importCmd.Flags().StringVar(&importReporter, "reporter", "", "Only import documents from this reporter")
	importCmd.Flags().StringArrayVar(&importVolumes, "volume", nil, "Only import documents from this volume (repeatable)")
	importCmd.Flags().StringVar(&importPage, "page", "", "Only import documents starting on this page")
	importCmd.Flags().StringVar(&importCourt, "court", "", "Only import documents resolving to this court id")
	importCmd.Flags().BoolVar(&importBankruptcy, "bankruptcy", false, "Import only bankruptcy-court documents")
	importCmd.Flags().BoolVar(&importMakeSearchable, "make-searchable", false, "Queue created and updated clusters for indexing")
	importCmd.Flags().IntVar(&importWorkers, "workers", 0, "Number of documents processed concurrently")
	importCmd.Flags().IntVar(&importThreshold, "threshold", 0, "Minimum opinion-text similarity (0-100) for a match")
	addDatabaseFlags(importCmd, &importDatabaseURL, &importSQLitePath)
	importCmd.Flags().BoolVar(&importJSON, "json", false, "Print the report as JSON")

	rootCmd.AddCommand(importCmd)
}

// addDatabaseFlags registers the flags that pick a database
func addDatabaseFlags(cmd *cobra.Command, url, sqlitePath *string) {
	cmd.Flags().StringVar(url, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	cmd.Flags().StringVar(sqlitePath, "sqlite-path", "", "SQLite database file, used when no PostgreSQL URL is set")
}

// applyDatabaseFlags overrides the database settings from explicitly set flags
func applyDatabaseFlags(cmd *cobra.Command, c *config.Config, url, sqlitePath string) {
	if cmd.Flags().Changed("db-url") {
		c.Database.URL = url
		c.Database.Driver = config.DriverPostgres
	}
	if cmd.Flags().Changed("sqlite-path") {
		c.Database.SQLitePath = sqlitePath
		c.Database.Driver = config.DriverSQLite
	}
}

func runImportCmd(cmd *cobra.Command, _ []string) error {
	c := cfg

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("dir") {
		c.Source.Dir = importDir
	}
	if cmd.Flags().Changed("s3-bucket") {
		c.Source.S3.Bucket = importS3Bucket
	}
	if cmd.Flags().Changed("s3-prefix") {
		c.Source.S3.Prefix = importS3Prefix
	}
	if cmd.Flags().Changed("s3-region") {
		c.Source.S3.Region = importS3Region
	}
	if cmd.Flags().Changed("reporter") {
		c.Import.Reporter = importReporter
	}
	if cmd.Flags().Changed("volume") {
		c.Import.Volumes = importVolumes
	}
	if cmd.Flags().Changed("page") {
		c.Import.Page = importPage
	}
	if cmd.Flags().Changed("court") {
		c.Import.CourtID = importCourt
	}
	if cmd.Flags().Changed("bankruptcy") {
		c.Import.Bankruptcy = importBankruptcy
	}
	if cmd.Flags().Changed("make-searchable") {
		c.Import.MakeSearchable = importMakeSearchable
	}
	if cmd.Flags().Changed("workers") {
		c.Import.Workers = importWorkers
	}
	if cmd.Flags().Changed("threshold") {
		c.Import.MatchThreshold = importThreshold
	}
	applyDatabaseFlags(cmd, &c, importDatabaseURL, importSQLitePath)

	if err := c.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := runImport(ctx, c, cmd.OutOrStdout())
	if report != nil {
		if printErr := printReport(cmd.OutOrStdout(), report); printErr != nil {
			return printErr
		}
	}
	return err
}

// runImport runs one batch with the given settings. Verbose mode prints the
// reconciliation plan of every document that touched an existing cluster.
func runImport(ctx context.Context, c config.Config, out io.Writer) (*importer.Report, error) {
	st, closeStore, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	resolver, err := newResolver(c)
	if err != nil {
		return nil, err
	}
	src, err := newSource(ctx, c)
	if err != nil {
		return nil, err
	}

	opts := importer.Options{
		Workers:        c.Import.Workers,
		MatchThreshold: c.Import.MatchThreshold,
		MakeSearchable: c.Import.MakeSearchable,
		Bankruptcy:     c.Import.Bankruptcy,
		CourtID:        c.Import.CourtID,
	}
	if verbose {
		printer := observability.NewPrinter(out)
		opts.OnOutcome = func(o *importer.Outcome) {
			if o.Plan != nil && !o.Created {
				printer.PrintPlan(o.Plan)
			}
		}
	}

	im := importer.New(st, resolver, casename.NewDefaultWinnower(), opts, logger)
	return im.Run(ctx, src)
}

func printReport(out io.Writer, report *importer.Report) error {
	if importJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	if verbose {
		observability.NewPrinter(out).PrintReport(report)
		return nil
	}
	_, err := fmt.Fprintf(out, "processed %d: created %d, updated %d, unchanged %d, ambiguous %d, skipped %d, failed %d, reviews %d\n",
		report.Processed, report.Created, report.Updated, report.Unchanged,
		report.Ambiguous, report.Skipped, report.Failed, report.Reviews)
	return err
}
