// Package main is the batch migration tool for stored records.
//
// It rewrites legacy pet entries and missing levels in the configured record
// store, optionally importing a JSON data file first:
//
//	migrate                         # normalize the configured store in place
//	migrate -from user_data.json    # import a data file, then normalize
//	migrate -dry-run                # report only
//	migrate -schema-status          # list postgres schema migrations
//	migrate -schema-rollback        # undo the newest postgres schema migration
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alem-hub/petquest/config"
	"github.com/alem-hub/petquest/internal/application/command"
	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/infrastructure/persistence"
	"github.com/alem-hub/petquest/internal/infrastructure/persistence/file"
	pgstore "github.com/alem-hub/petquest/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/petquest/pkg/logger"
	"github.com/alem-hub/petquest/pkg/timeutil"
)

// errNoSchema is returned by the schema flags on backends without migrations.
var errNoSchema = errors.New("schema commands need STORAGE_BACKEND=postgres")

type options struct {
	from      string
	overwrite bool
	dryRun    bool

	schemaStatus   bool
	schemaRollback bool
}

func main() {
	var opts options
	flag.StringVar(&opts.from, "from", "", "JSON data file to import before normalizing")
	flag.BoolVar(&opts.overwrite, "overwrite", false, "let imported records replace existing ones")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "report changes without saving")
	flag.BoolVar(&opts.schemaStatus, "schema-status", false, "list postgres schema migrations and exit")
	flag.BoolVar(&opts.schemaRollback, "schema-rollback", false, "roll back the newest postgres schema migration and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.LoadOffline()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name + "-migrate",
		Level:   cfg.Observability.LogLevel,
		Format:  logger.Format(cfg.LogFormat()),
		Output:  os.Stderr,
	})

	// Fail before touching the target when the import file is missing.
	source, err := sourceStore(opts.from)
	if err != nil {
		return err
	}

	catalog, err := config.LoadCatalog(cfg.Bot.CatalogFile)
	if err != nil {
		return err
	}

	opened, err := persistence.Open(ctx, cfg.Storage, logger.Component(log, "store"))
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer opened.Close()

	if opts.schemaStatus || opts.schemaRollback {
		var m schemaMigrator
		if opened.Migrator != nil {
			m = opened.Migrator
		}
		return runSchema(ctx, m, opts.schemaRollback, os.Stdout)
	}

	handler := command.NewMigrateRecordsHandler(command.NewUnitOfWork(opened.Store), catalog, log)
	res, err := handler.Handle(ctx, command.MigrateRecordsCommand{
		Source:    source,
		Overwrite: opts.overwrite,
		DryRun:    opts.dryRun,
	})
	if err != nil {
		return err
	}

	fmt.Printf("scanned=%d normalized=%d imported=%d skipped=%d invalid=%d committed=%t\n",
		res.Scanned, res.Normalized, res.Imported, res.Skipped, len(res.Invalid), res.Committed)
	return nil
}

// sourceStore opens the import file. An empty path means no import; a path
// that does not exist is an error rather than an empty import.
func sourceStore(path string) (player.Store, error) {
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("import source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("import source %s is a directory", path)
	}
	return file.NewStore(path), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Schema
// ─────────────────────────────────────────────────────────────────────────────

type schemaMigrator interface {
	Status(ctx context.Context) ([]pgstore.Migration, error)
	Rollback(ctx context.Context) error
}

// runSchema optionally rolls back the newest migration, then prints the
// status table. The record store is opened (and so migrated) before this
// runs; the next bot start applies a rolled back migration again.
func runSchema(ctx context.Context, m schemaMigrator, rollback bool, w io.Writer) error {
	if m == nil {
		return errNoSchema
	}

	if rollback {
		if err := m.Rollback(ctx); err != nil {
			return err
		}
	}

	migrations, err := m.Status(ctx)
	if err != nil {
		return err
	}
	for _, mig := range migrations {
		state := "pending"
		if mig.IsApplied {
			state = "applied " + timeutil.FormatDateTimeStr(mig.AppliedAt.UTC())
		}
		fmt.Fprintf(w, "%03d %-28s %s\n", mig.Version, mig.Name, state)
	}
	return nil
}
