// Package telegram implements the chat surface of the pet bot: command
// parsing, routing to the engines and the polling loop.
package telegram

import (
	"context"
	"fmt"

	"github.com/alem-hub/petquest/internal/application/command"
	"github.com/alem-hub/petquest/internal/application/query"
	"github.com/alem-hub/petquest/internal/domain/pet"
	"github.com/alem-hub/petquest/internal/interface/telegram/middleware"
	"github.com/alem-hub/petquest/internal/interface/telegram/presenter"
)

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER INTERFACES
// The router depends on these rather than the concrete handlers so tests can
// swap in fakes.
// ══════════════════════════════════════════════════════════════════════════════

// ActivityHandler accrues XP for a plain message.
type ActivityHandler interface {
	Handle(ctx context.Context, cmd command.AccrueActivityCommand) (*command.AccrueActivityResult, error)
}

// PurchaseHandler buys a pet.
type PurchaseHandler interface {
	Handle(ctx context.Context, cmd command.PurchasePetCommand) (*command.PurchasePetResult, error)
}

// RenameHandler renames an owned pet.
type RenameHandler interface {
	Handle(ctx context.Context, cmd command.RenamePetCommand) (*command.RenamePetResult, error)
}

// StatsHandler reads a user's stats.
type StatsHandler interface {
	Handle(ctx context.Context, q query.GetStatsQuery) (*query.StatsDTO, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// ROUTER
// ══════════════════════════════════════════════════════════════════════════════

// Inbound is one chat message addressed to the engines.
type Inbound struct {
	UserID      string
	DisplayName string
	Text        string
}

// Response is what the router decided for one message.
type Response struct {
	// Text is the reply. Empty when Send is false.
	Text string

	// Send is false for silent XP accrual.
	Send bool

	Command Kind
	Outcome middleware.Outcome

	// LevelUps and Purchased feed the metrics.
	LevelUps  int
	Purchased pet.Key
}

// RouterDeps contains the router's collaborators.
type RouterDeps struct {
	Parser    *Parser
	Presenter *presenter.Presenter
	Activity  ActivityHandler
	Purchase  PurchaseHandler
	Rename    RenameHandler
	Stats     StatsHandler
}

type route func(ctx context.Context, in Inbound, cmd Command) (Response, error)

// Router resolves a parsed command to exactly one engine operation.
type Router struct {
	parser    *Parser
	presenter *presenter.Presenter
	deps      RouterDeps
	routes    map[Kind]route
}

// NewRouter creates a router and builds its kind→handler table.
func NewRouter(deps RouterDeps) *Router {
	r := &Router{
		parser:    deps.Parser,
		presenter: deps.Presenter,
		deps:      deps,
	}
	if r.parser == nil {
		r.parser = NewParser("")
	}

	r.routes = map[Kind]route{
		KindActivity: r.handleActivity,
		KindHelp:     r.static(func() string { return r.presenter.Help() }),
		KindShop:     r.static(func() string { return r.presenter.Shop() }),
		KindStats:    r.handleStats,
		KindBuy:      r.handleBuy,
		KindRename:   r.handleRename,
		KindUnknown:  r.static(func() string { return r.presenter.Unknown() }),
	}
	return r
}

// Parse classifies text with the router's parser.
func (r *Router) Parse(text string) Command {
	return r.parser.Parse(text)
}

// Handle parses and dispatches one message. ok is false when no reply should
// be sent. A non-nil error is a storage failure.
func (r *Router) Handle(ctx context.Context, in Inbound) (reply string, ok bool, err error) {
	resp, err := r.Dispatch(ctx, in, r.Parse(in.Text))
	if err != nil {
		return "", false, err
	}
	return resp.Text, resp.Send, nil
}

// Dispatch runs the operation for an already parsed command.
func (r *Router) Dispatch(ctx context.Context, in Inbound, cmd Command) (Response, error) {
	h, ok := r.routes[cmd.Kind]
	if !ok {
		return Response{}, fmt.Errorf("router: no route for %s", cmd.Kind)
	}
	resp, err := h(ctx, in, cmd)
	resp.Command = cmd.Kind
	return resp, err
}

// ─────────────────────────────────────────────────────────────────────────────
// ROUTES
// ─────────────────────────────────────────────────────────────────────────────

func (r *Router) static(render func() string) route {
	return func(context.Context, Inbound, Command) (Response, error) {
		return reply(render(), middleware.OutcomeOK), nil
	}
}

func (r *Router) handleActivity(ctx context.Context, in Inbound, _ Command) (Response, error) {
	res, err := r.deps.Activity.Handle(ctx, command.AccrueActivityCommand{
		UserID:      in.UserID,
		DisplayName: in.DisplayName,
	})
	if err != nil {
		return Response{}, err
	}

	text, send := r.presenter.Activity(in.DisplayName, res)
	resp := Response{
		Text:     text,
		Send:     send,
		Outcome:  middleware.OutcomeSilent,
		LevelUps: res.Accrual.LevelUps,
	}
	if send {
		resp.Outcome = middleware.OutcomeOK
	}
	return resp, nil
}

func (r *Router) handleStats(ctx context.Context, in Inbound, _ Command) (Response, error) {
	stats, err := r.deps.Stats.Handle(ctx, query.GetStatsQuery{UserID: in.UserID})
	if err != nil {
		return Response{}, err
	}
	return reply(r.presenter.Stats(in.DisplayName, stats), middleware.OutcomeOK), nil
}

func (r *Router) handleBuy(ctx context.Context, in Inbound, cmd Command) (Response, error) {
	if cmd.Usage {
		return reply(r.presenter.BuyUsage(), middleware.OutcomeUsage), nil
	}

	res, err := r.deps.Purchase.Handle(ctx, command.PurchasePetCommand{
		UserID:      in.UserID,
		DisplayName: in.DisplayName,
		Selector:    cmd.Selector,
	})
	if err != nil {
		return Response{}, err
	}

	if !res.Succeeded() {
		return reply(r.presenter.Purchase(res), middleware.OutcomeRejected), nil
	}
	resp := reply(r.presenter.Purchase(res), middleware.OutcomeOK)
	resp.Purchased = res.Species.Key
	return resp, nil
}

func (r *Router) handleRename(ctx context.Context, in Inbound, cmd Command) (Response, error) {
	if cmd.Usage {
		return reply(r.presenter.RenameUsage(), middleware.OutcomeUsage), nil
	}

	res, err := r.deps.Rename.Handle(ctx, command.RenamePetCommand{
		UserID:  in.UserID,
		Kind:    cmd.Selector,
		NewName: cmd.Name,
	})
	if err != nil {
		return Response{}, err
	}

	outcome := middleware.OutcomeOK
	if !res.Succeeded() {
		outcome = middleware.OutcomeRejected
	}
	return reply(r.presenter.Rename(res), outcome), nil
}

func reply(text string, outcome middleware.Outcome) Response {
	return Response{Text: text, Send: true, Outcome: outcome}
}
