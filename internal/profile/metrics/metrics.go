package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dataloaders/internal/fallback"
)

// Metrics tracks fallback lookups for the profile module. It satisfies
// fallback.Observer.
type Metrics struct {
	LookupsTotal        *prometheus.CounterVec
	NotFoundTotal       *prometheus.CounterVec
	RemoteAbsencesTotal *prometheus.CounterVec
	LookupDuration      *prometheus.HistogramVec
}

// New creates a new Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics with reg, which lets tests use a private
// registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataloaders_profile_lookups_total",
			Help: "Resolved profile lookups by fetcher and the source that answered",
		}, []string{"fetcher", "source"}),
		NotFoundTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataloaders_profile_not_found_total",
			Help: "Lookups unknown to both the remote API and the static fixtures",
		}, []string{"fetcher"}),
		RemoteAbsencesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataloaders_profile_remote_absences_total",
			Help: "Remote lookups that produced no value, by reason",
		}, []string{"fetcher", "reason"}),
		LookupDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataloaders_profile_lookup_duration_seconds",
			Help:    "Observed lookup latency including the minimum display delay",
			Buckets: []float64{0.1, 0.25, 0.5, 0.75, 1, 1.5, 2, 2.5, 3, 5},
		}, []string{"fetcher"}),
	}
}

func (m *Metrics) ObserveLookup(fetcher string, source fallback.Source, elapsed time.Duration) {
	m.LookupsTotal.WithLabelValues(fetcher, string(source)).Inc()
	m.LookupDuration.WithLabelValues(fetcher).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveNotFound(fetcher string, elapsed time.Duration) {
	m.NotFoundTotal.WithLabelValues(fetcher).Inc()
	m.LookupDuration.WithLabelValues(fetcher).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRemoteAbsence(fetcher, reason string) {
	m.RemoteAbsencesTotal.WithLabelValues(fetcher, reason).Inc()
}
