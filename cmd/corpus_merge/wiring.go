package main

import (
	"context"
	"fmt"

	"github.com/jonathan/corpus-merge/internal/config"
	"github.com/jonathan/corpus-merge/internal/courts"
	"github.com/jonathan/corpus-merge/internal/db"
	"github.com/jonathan/corpus-merge/internal/importer"
	"github.com/jonathan/corpus-merge/internal/source"
	"github.com/jonathan/corpus-merge/internal/sqlitestore"
	"github.com/jonathan/corpus-merge/internal/types"
)

// store is what the commands need from either database backend
type store interface {
	importer.Store
	ListPendingReviews(ctx context.Context, kind string, limit int) ([]types.PendingReview, error)
}

// openStore connects to the configured database. The returned function
// closes it.
func openStore(ctx context.Context, c config.Config) (store, func(), error) {
	switch c.Database.Driver {
	case config.DriverPostgres:
		if c.Database.URL == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
		}
		database, err := db.Connect(ctx, c.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		return database, database.Close, nil
	case config.DriverSQLite, "":
		s, err := sqlitestore.Open(c.Database.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q", c.Database.Driver)
}

// newResolver loads the court table, preferring a configured override
func newResolver(c config.Config) (*courts.Resolver, error) {
	var (
		reg *courts.Registry
		err error
	)
	if c.Courts.Table != "" {
		reg, err = courts.LoadRegistryFile(c.Courts.Table)
	} else {
		reg, err = courts.DefaultRegistry()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load court table: %w", err)
	}
	return courts.NewResolver(reg), nil
}

// newSource builds the document source named by the configuration
func newSource(ctx context.Context, c config.Config) (importer.Source, error) {
	filter := source.Filter{
		Reporter: c.Import.Reporter,
		Volumes:  c.Import.Volumes,
		Page:     c.Import.Page,
	}

	switch {
	case c.Source.Dir != "" && c.Source.S3.Bucket != "":
		return nil, fmt.Errorf("--dir and --s3-bucket are mutually exclusive; provide only one")
	case c.Source.Dir != "":
		return source.NewDirSource(c.Source.Dir, filter), nil
	case c.Source.S3.Bucket != "":
		return source.NewS3Source(ctx, source.S3Config{
			Bucket:   c.Source.S3.Bucket,
			Prefix:   c.Source.S3.Prefix,
			Region:   c.Source.S3.Region,
			Endpoint: c.Source.S3.Endpoint,
		}, filter)
	}
	return nil, fmt.Errorf("either --dir or --s3-bucket must be provided (via flag or config)")
}
