package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the schema in the configured database",
	RunE:  runMigrate,
}

var (
	migrateDatabaseURL string
	migrateSQLitePath  string
)

func init() {
	addDatabaseFlags(migrateCmd, &migrateDatabaseURL, &migrateSQLitePath)

	rootCmd.AddCommand(migrateCmd)
}

type migrator interface {
	Migrate(ctx context.Context) error
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	c := cfg
	applyDatabaseFlags(cmd, &c, migrateDatabaseURL, migrateSQLitePath)

	// The SQLite store migrates when it is opened.
	st, closeStore, err := openStore(cmd.Context(), c)
	if err != nil {
		return err
	}
	defer closeStore()

	if m, ok := st.(migrator); ok {
		if err := m.Migrate(cmd.Context()); err != nil {
			return err
		}
	}
	logger.Info().Str("driver", c.Database.Driver).Msg("schema up to date")
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	return err
}
