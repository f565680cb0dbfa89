package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	MigrationAttemptsTotal  prometheus.Counter
	MigrationSuccessesTotal prometheus.Counter
	MigrationBypassesTotal  *prometheus.CounterVec
	SpeechesMovedTotal      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		MigrationAttemptsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vowcraft_migration_attempts_total",
			Help: "Total number of ownership migration attempts started",
		}),
		MigrationSuccessesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vowcraft_migration_successes_total",
			Help: "Total number of ownership migrations completed successfully",
		}),
		MigrationBypassesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vowcraft_migration_bypasses_total",
			Help: "Total number of migrations abandoned, by reason",
		}, []string{"reason"}),
		SpeechesMovedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vowcraft_migration_speeches_moved_total",
			Help: "Total number of speeches transferred to authenticated owners",
		}),
	}
}

func (m *Metrics) IncrementAttempts() {
	m.MigrationAttemptsTotal.Inc()
}

func (m *Metrics) RecordSuccess(speechesMoved int64) {
	m.MigrationSuccessesTotal.Inc()
	m.SpeechesMovedTotal.Add(float64(speechesMoved))
}

func (m *Metrics) IncrementBypasses(reason string) {
	m.MigrationBypassesTotal.WithLabelValues(reason).Inc()
}
