package command

import (
	"context"
	"errors"

	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RENAME PET COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RenamePetCommand contains the data to rename an owned pet.
type RenamePetCommand struct {
	UserID string

	// Kind is the canonical catalog key of the pet to rename.
	Kind string

	// NewName is taken verbatim.
	NewName string
}

// Validate validates the command.
func (c RenamePetCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("rename_pet: user_id is required")
	}
	return nil
}

// RenamePetResult is the outcome of a rename.
type RenamePetResult struct {
	// Pet is the renamed entry; zero on rejection.
	Pet player.PetEntry

	// Rejection is the business reason the rename was refused, if any.
	Rejection error
}

// Succeeded reports whether the pet was renamed.
func (r *RenamePetResult) Succeeded() bool {
	return r.Rejection == nil
}

// RenamePetHandler handles RenamePetCommand.
type RenamePetHandler struct {
	uow     *UnitOfWork
	catalog *pet.Catalog
}

// NewRenamePetHandler creates a new RenamePetHandler.
func NewRenamePetHandler(uow *UnitOfWork, catalog *pet.Catalog) *RenamePetHandler {
	return &RenamePetHandler{
		uow:     uow,
		catalog: catalog,
	}
}

// Handle executes the rename.
func (h *RenamePetHandler) Handle(ctx context.Context, cmd RenamePetCommand) (*RenamePetResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &RenamePetResult{}

	err := h.uow.Execute(ctx, func(ctx context.Context, s *Session) error {
		rec, ok := s.Lookup(cmd.UserID)
		if !ok {
			result.Rejection = shared.ErrRenameNotOwned
			return nil
		}
		player.Normalize(rec, h.catalog)

		entry, err := rec.RenamePet(cmd.Kind, cmd.NewName)
		if err != nil {
			if shared.IsRejection(err) {
				result.Rejection = err
				return nil
			}
			return err
		}

		if err := s.Commit(ctx); err != nil {
			return err
		}
		result.Pet = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
