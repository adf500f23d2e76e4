package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"info", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Service: "petquest-test", Level: "info", Format: FormatJSON, Output: &buf})

	log.Debug().Msg("hidden")
	storeLog := Component(log, "store")
	storeLog.Info().Str(KeyUserID, "42").Msg("saved")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "petquest-test", entry["service"])
	assert.Equal(t, "store", entry[KeyComponent])
	assert.Equal(t, "42", entry[KeyUserID])
	assert.Equal(t, "saved", entry["message"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_ConsoleDefaultsService(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: FormatConsole, Output: &buf})

	log.Info().Msg("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "petquest")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: FormatJSON, Output: &buf})

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	// A bare context yields a disabled logger, never nil.
	assert.NotNil(t, FromContext(context.Background()))
}
