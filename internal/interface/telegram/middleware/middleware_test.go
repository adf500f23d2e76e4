package middleware

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// ══════════════════════════════════════════════════════════════════════════════

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 1, BurstSize: 2})
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("42"))
	assert.True(t, rl.Allow("42"))
	assert.False(t, rl.Allow("42"))

	// Other users have their own bucket.
	assert.True(t, rl.Allow("7"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("42"))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	for i := 0; i < 100; i++ {
		require.True(t, rl.Allow("42"))
	}
	assert.Equal(t, 0, rl.Len())
}

func TestRateLimiter_CleanupDropsIdle(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerMinute: 10, BurstSize: 1, IdleTTL: time.Minute})
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(50 * time.Second)
	rl.Allow("fresh")
	now = now.Add(20 * time.Second)

	assert.Equal(t, 1, rl.Cleanup())
	assert.Equal(t, 1, rl.Len())
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOVERY
// ══════════════════════════════════════════════════════════════════════════════

func TestRecovery_PassesThroughErrors(t *testing.T) {
	r := NewRecovery(zerolog.Nop(), nil)
	boom := errors.New("boom")

	res, err := r.Run("42", "buy", func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, res.Recovered)
}

func TestRecovery_CatchesPanic(t *testing.T) {
	var buf bytes.Buffer
	var seen *PanicInfo
	r := NewRecovery(zerolog.New(&buf), func(info *PanicInfo) { seen = info })

	res, err := r.Run("42", "shop", func() error { panic("kaputt") })
	require.NoError(t, err)
	require.True(t, res.Recovered)
	assert.Equal(t, "kaputt", res.PanicInfo.Value)
	assert.Equal(t, "shop", res.PanicInfo.Command)
	assert.Same(t, res.PanicInfo, seen)
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"user_id":"42"`)
}

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// ══════════════════════════════════════════════════════════════════════════════

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	m.Observe("buy", OutcomeOK, 3*time.Millisecond)
	m.Observe("buy", OutcomeStorageError, time.Millisecond)
	m.LevelUps(2)
	m.LevelUps(0)
	m.PetPurchased("🐍")
	m.Panic(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.updates.WithLabelValues("buy", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storageErrors))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.levelUps))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.purchases.WithLabelValues("🐍")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.panics))
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}
