package command

import (
	"context"
	"errors"

	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PURCHASE PET COMMAND
// Buys one pet from the shop for pet.Price XP. Balance and capacity are
// checked against the state loaded inside the unit of work.
// ══════════════════════════════════════════════════════════════════════════════

// PurchasePetCommand contains the data to buy a pet.
type PurchasePetCommand struct {
	UserID      string
	DisplayName string

	// Selector is a catalog key or a case-insensitive species name.
	Selector string
}

// Validate validates the command.
func (c PurchasePetCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("purchase_pet: user_id is required")
	}
	return nil
}

// PurchasePetResult is the outcome of a purchase.
type PurchasePetResult struct {
	// Species is the purchased species; zero on rejection.
	Species pet.Species

	// Rejection is the business reason the purchase was refused, if any.
	Rejection error

	// Record is a snapshot of the record after the attempt.
	Record *player.Record
}

// Succeeded reports whether the pet was bought.
func (r *PurchasePetResult) Succeeded() bool {
	return r.Rejection == nil
}

// PurchasePetHandler handles PurchasePetCommand.
type PurchasePetHandler struct {
	uow     *UnitOfWork
	catalog *pet.Catalog
}

// NewPurchasePetHandler creates a new PurchasePetHandler.
func NewPurchasePetHandler(uow *UnitOfWork, catalog *pet.Catalog) *PurchasePetHandler {
	return &PurchasePetHandler{
		uow:     uow,
		catalog: catalog,
	}
}

// Handle executes the purchase. Rejections are reported in the result; only
// storage failures are returned as errors.
func (h *PurchasePetHandler) Handle(ctx context.Context, cmd PurchasePetCommand) (*PurchasePetResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &PurchasePetResult{}

	err := h.uow.Execute(ctx, func(ctx context.Context, s *Session) error {
		rec := s.Record(cmd.UserID)
		player.Normalize(rec, h.catalog)

		species, err := rec.Purchase(h.catalog, cmd.Selector)
		if err != nil {
			if shared.IsRejection(err) {
				result.Rejection = err
				result.Record = rec.Clone()
				return nil
			}
			return err
		}

		if err := s.Commit(ctx); err != nil {
			return err
		}

		result.Species = species
		result.Record = rec.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
