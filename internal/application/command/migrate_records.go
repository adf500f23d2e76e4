package command

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATE RECORDS COMMAND
// Rewrites every stored record into canonical form in one pass. With a
// Source the records are first copied from another store (importing a legacy
// data file into redis or postgres, for example).
// ══════════════════════════════════════════════════════════════════════════════

// MigrateRecordsCommand contains the options of a batch migration.
type MigrateRecordsCommand struct {
	// Source is read instead of the target store when set. Nil migrates in place.
	Source player.Store

	// Overwrite lets Source records replace records that already exist in the
	// target. Otherwise existing target records win.
	Overwrite bool

	// DryRun computes the report without committing.
	DryRun bool
}

// MigrateRecordsResult reports what the migration did.
type MigrateRecordsResult struct {
	Scanned    int
	Normalized int
	Imported   int
	Skipped    int

	// Invalid lists users whose record still breaks the level, XP or
	// capacity invariants after normalization. They are kept as they are.
	Invalid []string

	Committed bool
}

// MigrateRecordsHandler handles MigrateRecordsCommand.
type MigrateRecordsHandler struct {
	uow     *UnitOfWork
	catalog *pet.Catalog
	log     zerolog.Logger
}

// NewMigrateRecordsHandler creates a new MigrateRecordsHandler.
func NewMigrateRecordsHandler(uow *UnitOfWork, catalog *pet.Catalog, log zerolog.Logger) *MigrateRecordsHandler {
	return &MigrateRecordsHandler{
		uow:     uow,
		catalog: catalog,
		log:     log,
	}
}

// Handle runs the migration inside one unit of work.
func (h *MigrateRecordsHandler) Handle(ctx context.Context, cmd MigrateRecordsCommand) (*MigrateRecordsResult, error) {
	var incoming player.Records
	if cmd.Source != nil {
		recs, err := cmd.Source.Load(ctx)
		if err != nil {
			return nil, shared.StorageError("Load source", err)
		}
		incoming = recs
	}

	result := &MigrateRecordsResult{}

	err := h.uow.Execute(ctx, func(ctx context.Context, s *Session) error {
		dirty := false

		for id, rec := range incoming {
			if rec == nil {
				result.Skipped++
				continue
			}
			if _, exists := s.Lookup(id); exists && !cmd.Overwrite {
				result.Skipped++
				continue
			}
			s.Put(id, rec.Clone())
			result.Imported++
			dirty = true
		}

		for _, id := range s.IDs() {
			rec, ok := s.Lookup(id)
			if !ok {
				continue
			}
			result.Scanned++

			if player.Normalize(rec, h.catalog) {
				result.Normalized++
				dirty = true
			}
			if !rec.Valid() {
				result.Invalid = append(result.Invalid, id)
				h.log.Warn().
					Str("user_id", id).
					Int("lvl", rec.Level).
					Int("xp", rec.XP).
					Int("pets", len(rec.Pets)).
					Msg("record violates invariants")
			}
		}

		if cmd.DryRun || !dirty {
			return nil
		}
		if err := s.Commit(ctx); err != nil {
			return err
		}
		result.Committed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.Info().
		Int("scanned", result.Scanned).
		Int("normalized", result.Normalized).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Int("invalid", len(result.Invalid)).
		Bool("committed", result.Committed).
		Bool("dry_run", cmd.DryRun).
		Msg("records migrated")

	return result, nil
}
