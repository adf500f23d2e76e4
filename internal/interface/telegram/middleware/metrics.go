package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// Prometheus counters and histograms for the chat surface.
// ══════════════════════════════════════════════════════════════════════════════

// Outcome labels the result of one update.
type Outcome string

const (
	OutcomeOK           Outcome = "ok"
	OutcomeSilent       Outcome = "silent"
	OutcomeRejected     Outcome = "rejected"
	OutcomeUsage        Outcome = "usage"
	OutcomeStorageError Outcome = "storage_error"
	OutcomeRateLimited  Outcome = "rate_limited"
	OutcomePanic        Outcome = "panic"
	OutcomeError        Outcome = "error"
)

// Metrics holds the bot's Prometheus collectors.
type Metrics struct {
	updates       *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	levelUps      prometheus.Counter
	purchases     *prometheus.CounterVec
	storageErrors prometheus.Counter
	panics        prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petquest_updates_total",
			Help: "Chat updates processed, by command and outcome",
		}, []string{"command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "petquest_update_duration_seconds",
			Help:    "Time spent handling one chat update",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"command"}),
		levelUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petquest_level_ups_total",
			Help: "Levels gained by all users",
		}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "petquest_pets_purchased_total",
			Help: "Pets bought in the shop, by species",
		}, []string{"species"}),
		storageErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petquest_storage_errors_total",
			Help: "Operations that failed because the record store was unavailable",
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "petquest_panics_recovered_total",
			Help: "Handler panics caught by the recovery middleware",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.updates, m.duration, m.levelUps, m.purchases, m.storageErrors, m.panics,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one handled update.
func (m *Metrics) Observe(command string, outcome Outcome, elapsed time.Duration) {
	m.updates.WithLabelValues(command, string(outcome)).Inc()
	m.duration.WithLabelValues(command).Observe(elapsed.Seconds())
	if outcome == OutcomeStorageError {
		m.storageErrors.Inc()
	}
}

// LevelUps adds n gained levels.
func (m *Metrics) LevelUps(n int) {
	if n > 0 {
		m.levelUps.Add(float64(n))
	}
}

// PetPurchased counts a successful purchase of species.
func (m *Metrics) PetPurchased(species string) {
	m.purchases.WithLabelValues(species).Inc()
}

// Panic counts a recovered panic.
func (m *Metrics) Panic(*PanicInfo) {
	m.panics.Inc()
}
