package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultKeepAliveText is the body served on the keep-alive route.
const DefaultKeepAliveText = "Bot läuft!"

// KeepAlive answers uptime pingers with a fixed text and logs each ping.
type KeepAlive struct {
	text string
	log  zerolog.Logger
	now  func() time.Time
}

// NewKeepAlive creates the handler. An empty text falls back to DefaultKeepAliveText.
func NewKeepAlive(text string, log zerolog.Logger) *KeepAlive {
	if text == "" {
		text = DefaultKeepAliveText
	}
	return &KeepAlive{text: text, log: log, now: time.Now}
}

// ServeHTTP writes the keep-alive text.
func (k *KeepAlive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	k.log.Info().
		Time("pinged_at", k.now()).
		Str("remote", r.RemoteAddr).
		Msg("keep-alive ping")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(k.text))
}
