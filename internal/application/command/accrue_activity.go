package command

import (
	"context"
	"errors"

	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/domain/player"
	"github.com/alem-hub/petquest/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCRUE ACTIVITY COMMAND
// Every plain chat message earns XP. The first message of a calendar day also
// earns the day bonus and a greeting line.
// ══════════════════════════════════════════════════════════════════════════════

// AccrueActivityCommand contains the data of one activity event.
type AccrueActivityCommand struct {
	// UserID is the opaque chat user identifier.
	UserID string

	// DisplayName is used in the greeting line.
	DisplayName string
}

// Validate validates the command.
func (c AccrueActivityCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("accrue_activity: user_id is required")
	}
	return nil
}

// AccrueActivityResult is the outcome of one activity event.
type AccrueActivityResult struct {
	UserID string

	// Accrual holds the XP and level changes.
	Accrual player.Accrual

	// Greeting is the rendered daily line, empty unless Accrual.NewDay.
	Greeting string

	// Migrated is true when legacy pet entries were rewritten first.
	Migrated bool

	// Record is a snapshot of the record after the event.
	Record *player.Record
}

// HasNotification reports whether the event produced anything worth replying.
func (r *AccrueActivityResult) HasNotification() bool {
	return r.Greeting != "" || r.Accrual.LeveledUp()
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AccrueActivityHandler handles AccrueActivityCommand.
type AccrueActivityHandler struct {
	uow     *UnitOfWork
	catalog *pet.Catalog
	clock   timeutil.Clock
	greeter *Greeter
}

// NewAccrueActivityHandler creates a new AccrueActivityHandler.
func NewAccrueActivityHandler(
	uow *UnitOfWork,
	catalog *pet.Catalog,
	clock timeutil.Clock,
	greeter *Greeter,
) *AccrueActivityHandler {
	return &AccrueActivityHandler{
		uow:     uow,
		catalog: catalog,
		clock:   clock,
		greeter: greeter,
	}
}

// Handle executes the accrue activity command. Only storage failures are
// returned as errors.
func (h *AccrueActivityHandler) Handle(ctx context.Context, cmd AccrueActivityCommand) (*AccrueActivityResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	result := &AccrueActivityResult{UserID: cmd.UserID}

	err := h.uow.Execute(ctx, func(ctx context.Context, s *Session) error {
		rec := s.Record(cmd.UserID)

		// Migration is persisted on its own before the activity is applied.
		if player.Normalize(rec, h.catalog) {
			if err := s.Commit(ctx); err != nil {
				return err
			}
			result.Migrated = true
		}

		accrual := rec.Accrue(h.clock.Now())
		if err := s.Commit(ctx); err != nil {
			return err
		}

		result.Accrual = accrual
		result.Record = rec.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Accrual.NewDay {
		result.Greeting = h.greeter.Greet(cmd.DisplayName, result.Accrual.XPGained)
	}
	return result, nil
}
