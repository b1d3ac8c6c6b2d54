package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonathan/corpus-merge/internal/config"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run imports on a cron schedule until interrupted",
	Long: `Runs the configured import on a standard 5-field cron expression (minute hour day-of-month month day-of-week), e.g. "0 3 * * *" for 3am daily. Descriptors such as @daily are accepted.

Filter settings come from the config file; source and database can also be set with flags.`,
	RunE: runScheduleCmd,
}

var (
	scheduleSpec        string
	scheduleNow         bool
	scheduleDir         string
	scheduleDatabaseURL string
	scheduleSQLitePath  string
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleSpec, "cron", "", "Cron expression (overrides schedule.cron from config)")
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "Run one import immediately before waiting for the schedule")
	scheduleCmd.Flags().StringVar(&scheduleDir, "dir", "", "Directory of case-law JSON documents (overrides source.dir from config)")
	addDatabaseFlags(scheduleCmd, &scheduleDatabaseURL, &scheduleSQLitePath)

	rootCmd.AddCommand(scheduleCmd)
}

func runScheduleCmd(cmd *cobra.Command, _ []string) error {
	c := cfg
	if cmd.Flags().Changed("cron") {
		c.Schedule.Cron = scheduleSpec
	}
	if cmd.Flags().Changed("dir") {
		c.Source.Dir = scheduleDir
	}
	applyDatabaseFlags(cmd, &c, scheduleDatabaseURL, scheduleSQLitePath)
	spec := strings.TrimSpace(c.Schedule.Cron)
	if spec == "" {
		return fmt.Errorf("a schedule is required (via --cron or schedule.cron in config)")
	}
	if err := requireSource(c); err != nil {
		return err
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("cron", spec).Msg("import scheduled")
	run := func(ctx context.Context) {
		report, err := runImport(ctx, c, cmd.OutOrStdout())
		if err != nil {
			logger.Error().Err(err).Msg("scheduled import failed")
		}
		if report != nil {
			_ = printReport(cmd.OutOrStdout(), report)
		}
	}
	if scheduleNow {
		run(ctx)
	}
	runSchedule(ctx, sched, time.Now, run)
	return nil
}

// runSchedule calls run at every activation of sched until ctx is done. A run
// that overlaps the next activation delays it rather than running twice.
func runSchedule(ctx context.Context, sched cron.Schedule, now func() time.Time, run func(context.Context)) {
	for {
		current := now()
		next := sched.Next(current)
		wait := next.Sub(current)
		logger.Info().Time("next", next).Dur("in", wait.Round(time.Second)).Msg("waiting for next import")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info().Msg("scheduler stopped")
			return
		case <-timer.C:
		}
		run(ctx)
	}
}

// requireSource reports a missing source before the first wait rather than
// at the first activation.
func requireSource(c config.Config) error {
	if c.Source.Dir == "" && c.Source.S3.Bucket == "" {
		return fmt.Errorf("a source is required for scheduled imports (source.dir or source.s3.bucket)")
	}
	return nil
}
