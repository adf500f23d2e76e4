// Package telegram wraps the Telegram Bot API for the bot: long polling for
// incoming messages and threaded replies. It converts API updates into the
// transport-neutral Message type so the interface layer never sees tgbotapi.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/alem-hub/petquest/pkg/circuitbreaker"
	"github.com/alem-hub/petquest/pkg/logger"
	"github.com/alem-hub/petquest/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Telegram client.
type ClientConfig struct {
	// Token is the Telegram Bot API token.
	Token string

	// PollingTimeout is the long polling timeout.
	PollingTimeout time.Duration

	// RetryAttempts is the number of attempts for a reply hitting a rate limit.
	RetryAttempts int

	// RetryDelay is the initial delay between reply attempts.
	RetryDelay time.Duration

	// Debug enables tgbotapi request logging.
	Debug bool

	// APIEndpoint overrides the Bot API URL template (a local Bot API
	// server, for example). Empty uses tgbotapi.APIEndpoint.
	APIEndpoint string

	// Breaker guards replies. Nil uses circuitbreaker.TelegramAPIBreaker.
	Breaker *circuitbreaker.CircuitBreaker

	// Logger for structured logging.
	Logger zerolog.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(token string) ClientConfig {
	return ClientConfig{
		Token:          token,
		PollingTimeout: 30 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Second,
		Logger:         logger.Nop(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MESSAGE
// ══════════════════════════════════════════════════════════════════════════════

// Message is an incoming text message.
type Message struct {
	UpdateID  int
	MessageID int
	ChatID    int64

	// UserID is the sender's Telegram id as a decimal string.
	UserID string

	// DisplayName is the sender's first name, or username if unset.
	DisplayName string

	Text string
}

// MessageFromUpdate extracts a Message from an update. Updates without a
// sender (channel posts, service messages) are skipped.
func MessageFromUpdate(upd tgbotapi.Update) (Message, bool) {
	msg := upd.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return Message{}, false
	}

	name := msg.From.FirstName
	if name == "" {
		name = msg.From.UserName
	}

	return Message{
		UpdateID:    upd.UpdateID,
		MessageID:   msg.MessageID,
		ChatID:      msg.Chat.ID,
		UserID:      strconv.FormatInt(msg.From.ID, 10),
		DisplayName: name,
		Text:        msg.Text,
	}, true
}

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Telegram Bot API client.
type Client struct {
	api     *tgbotapi.BotAPI
	config  ClientConfig
	breaker *circuitbreaker.CircuitBreaker
	logger  zerolog.Logger
}

// NewClient creates a client and verifies the token with getMe.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Token == "" {
		return nil, errors.New("telegram: token is required")
	}

	endpoint := config.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint(config.Token, endpoint)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	api.Debug = config.Debug

	log := logger.Component(config.Logger, "telegram")
	log.Info().
		Int64("bot_id", api.Self.ID).
		Str("username", api.Self.UserName).
		Msg("bot verified")

	breaker := config.Breaker
	if breaker == nil {
		breaker = circuitbreaker.TelegramAPIBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn().Str("breaker", name).Stringer("from", from).Stringer("to", to).Msg("circuit breaker state changed")
		})
	}

	return &Client{
		api:     api,
		config:  config,
		breaker: breaker,
		logger:  log,
	}, nil
}

// Poll receives updates until ctx is done and calls handle for each text
// message, one at a time in arrival order.
func (c *Client) Poll(ctx context.Context, handle func(ctx context.Context, msg Message)) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = int(c.config.PollingTimeout.Seconds())
	u.AllowedUpdates = []string{"message"}

	updates := c.api.GetUpdatesChan(u)
	defer c.api.StopReceivingUpdates()

	c.logger.Info().Dur("timeout", c.config.PollingTimeout).Msg("long polling started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info().Msg("long polling stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return errors.New("telegram: update channel closed")
			}
			msg, ok := MessageFromUpdate(upd)
			if !ok {
				continue
			}
			handle(ctx, msg)
		}
	}
}

// Reply sends text as a reply to the given message. Rate limit responses are
// retried no sooner than the retry_after Telegram asks for. While the API keeps failing the
// breaker rejects replies with circuitbreaker.ErrCircuitOpen.
func (c *Client) Reply(ctx context.Context, chatID int64, replyTo int, text string) error {
	out := tgbotapi.NewMessage(chatID, text)
	out.ReplyToMessageID = replyTo

	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return retry.Do(ctx, func(ctx context.Context) error {
			_, err := c.api.Send(out)
			if err == nil {
				return nil
			}

			var apiErr *tgbotapi.Error
			if errors.As(err, &apiErr) && apiErr.Code == 429 {
				wait := time.Duration(apiErr.RetryAfter) * time.Second
				c.logger.Warn().Dur("retry_after", wait).Int64("chat_id", chatID).Msg("reply rate limited")
				return retry.RetryAfter(err, wait)
			}
			return fmt.Errorf("telegram: send reply: %w", err)
		},
			retry.WithMaxAttempts(c.config.RetryAttempts),
			retry.WithInitialDelay(c.config.RetryDelay),
		)
	})
}
