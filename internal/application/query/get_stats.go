// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"

	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STATS QUERY
// Reads a user's level, XP and inventory. Nothing is written: unknown users
// see the default record and legacy entries are normalized in memory only.
// ══════════════════════════════════════════════════════════════════════════════

// GetStatsQuery identifies the user to read.
type GetStatsQuery struct {
	UserID string
}

// Validate validates the query.
func (q GetStatsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("get_stats: user_id is required")
	}
	return nil
}

// StatsDTO is the read model behind the stats reply.
type StatsDTO struct {
	UserID string

	// Known is false when the user has no stored record yet.
	Known bool

	Level      int
	XP         int
	XPToLevel  int
	Capacity   int
	Pets       []player.PetEntry
	LastActive string
}

// GetStatsHandler handles GetStatsQuery.
type GetStatsHandler struct {
	store   player.Store
	catalog *pet.Catalog
}

// NewGetStatsHandler creates a new GetStatsHandler.
func NewGetStatsHandler(store player.Store, catalog *pet.Catalog) *GetStatsHandler {
	return &GetStatsHandler{
		store:   store,
		catalog: catalog,
	}
}

// Handle executes the query.
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*StatsDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	records, err := h.store.Load(ctx)
	if err != nil {
		return nil, shared.StorageError("Load", err)
	}

	rec, known := records.GetOrNew(q.UserID)
	rec = rec.Clone()
	player.Normalize(rec, h.catalog)

	return &StatsDTO{
		UserID:     q.UserID,
		Known:      known,
		Level:      rec.Level,
		XP:         rec.XP,
		XPToLevel:  player.LevelThreshold(rec.Level),
		Capacity:   rec.Capacity(),
		Pets:       rec.Pets,
		LastActive: rec.LastActive,
	}, nil
}
