package telegram

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alem-hub/petquest/internal/domain/shared"
	tgclient "github.com/alem-hub/petquest/internal/infrastructure/external/telegram"
	"github.com/alem-hub/petquest/internal/interface/telegram/middleware"
	"github.com/alem-hub/petquest/internal/interface/telegram/presenter"
	"github.com/alem-hub/petquest/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOT
// The polling loop. Updates arrive one at a time. Commands pass the rate
// limiter first; then the update runs under panic recovery, is routed to one
// engine operation and is answered in the chat it came from.
// ══════════════════════════════════════════════════════════════════════════════

// Transport receives updates and sends replies.
type Transport interface {
	Poll(ctx context.Context, handle func(ctx context.Context, msg tgclient.Message)) error
	Reply(ctx context.Context, chatID int64, replyTo int, text string) error
}

// BotDeps contains the bot's collaborators. Limiter and Metrics may be nil.
type BotDeps struct {
	Transport Transport
	Router    *Router
	Presenter *presenter.Presenter
	Limiter   *middleware.RateLimiter
	Metrics   *middleware.Metrics
	Logger    zerolog.Logger
}

// Bot wires the transport to the router.
type Bot struct {
	transport Transport
	router    *Router
	presenter *presenter.Presenter
	limiter   *middleware.RateLimiter
	metrics   *middleware.Metrics
	recovery  *middleware.Recovery
	log       zerolog.Logger
}

// NewBot creates a new bot.
func NewBot(deps BotDeps) *Bot {
	log := logger.Component(deps.Logger, "bot")

	var onPanic func(*middleware.PanicInfo)
	if deps.Metrics != nil {
		onPanic = deps.Metrics.Panic
	}

	return &Bot{
		transport: deps.Transport,
		router:    deps.Router,
		presenter: deps.Presenter,
		limiter:   deps.Limiter,
		metrics:   deps.Metrics,
		recovery:  middleware.NewRecovery(log, onPanic),
		log:       log,
	}
}

// Run polls until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	b.log.Info().Msg("polling started")
	err := b.transport.Poll(ctx, b.HandleMessage)
	b.log.Info().Msg("polling stopped")
	return err
}

// HandleMessage processes one update and sends the reply, if any.
func (b *Bot) HandleMessage(ctx context.Context, msg tgclient.Message) {
	cmd := b.router.Parse(msg.Text)

	log := b.log.With().
		Str(logger.KeyCorrelationID, uuid.NewString()).
		Str(logger.KeyUserID, msg.UserID).
		Int(logger.KeyUpdateID, msg.UpdateID).
		Str(logger.KeyCommand, cmd.Kind.String()).
		Logger()
	ctx = logger.WithContext(ctx, log)

	// Only commands are throttled. Every plain message earns XP.
	if cmd.Kind != KindActivity && b.limiter != nil && !b.limiter.Allow(msg.UserID) {
		b.observe(cmd.Kind, Response{Outcome: middleware.OutcomeRateLimited}, 0)
		log.Debug().Msg("rate limited")
		b.reply(ctx, log, msg, b.presenter.RateLimited())
		return
	}

	start := time.Now()
	in := Inbound{UserID: msg.UserID, DisplayName: msg.DisplayName, Text: msg.Text}

	var resp Response
	recovered, err := b.recovery.Run(msg.UserID, cmd.Kind.String(), func() error {
		var err error
		resp, err = b.router.Dispatch(ctx, in, cmd)
		return err
	})

	switch {
	case recovered.Recovered:
		resp = b.failure(cmd.Kind, b.presenter.Internal(), middleware.OutcomePanic)
	case shared.IsStorageUnavailable(err):
		log.Error().Err(err).Msg("record store unavailable")
		resp = b.failure(cmd.Kind, b.presenter.StorageFailure(), middleware.OutcomeStorageError)
	case err != nil:
		log.Error().Err(err).Msg("update failed")
		resp = b.failure(cmd.Kind, b.presenter.Internal(), middleware.OutcomeError)
	case resp.Outcome == middleware.OutcomeRejected || resp.Outcome == middleware.OutcomeUsage:
		log.Debug().Str("outcome", string(resp.Outcome)).Msg("request rejected")
	}

	elapsed := time.Since(start)
	b.observe(cmd.Kind, resp, elapsed)
	log.Debug().Dur(logger.KeyLatency, elapsed).Str("outcome", string(resp.Outcome)).Msg("update handled")

	if resp.Send {
		b.reply(ctx, log, msg, resp.Text)
	}
}

// failure builds the response for a failed update. Activity stays silent.
func (b *Bot) failure(kind Kind, text string, outcome middleware.Outcome) Response {
	resp := Response{Command: kind, Outcome: outcome}
	if kind != KindActivity {
		resp.Text = text
		resp.Send = true
	}
	return resp
}

func (b *Bot) observe(kind Kind, resp Response, elapsed time.Duration) {
	if b.metrics == nil {
		return
	}
	b.metrics.Observe(kind.String(), resp.Outcome, elapsed)
	b.metrics.LevelUps(resp.LevelUps)
	if resp.Purchased != "" {
		b.metrics.PetPurchased(resp.Purchased.String())
	}
}

func (b *Bot) reply(ctx context.Context, log zerolog.Logger, msg tgclient.Message, text string) {
	if err := b.transport.Reply(ctx, msg.ChatID, msg.MessageID, text); err != nil {
		log.Error().Err(err).Msg("send reply")
	}
}
