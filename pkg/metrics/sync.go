package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncPublisherMetrics records outcomes for the outbox sync worker.
type SyncPublisherMetrics struct {
	published   *prometheus.CounterVec
	failed      *prometheus.CounterVec
	deadLetters *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewSyncPublisherMetrics registers the sync publisher metrics on the
// provided registerer.
func NewSyncPublisherMetrics(reg prometheus.Registerer) *SyncPublisherMetrics {
	if reg == nil {
		return &SyncPublisherMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_events_published",
		Help: "Outbox events delivered to the mirror endpoint.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_events_failed",
		Help: "Outbox delivery attempts that failed.",
	}, []string{"event_type"})
	deadLetters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_events_dead_lettered",
		Help: "Outbox events moved to the dead-letter table.",
	}, []string{"event_type"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_publish_duration_seconds",
		Help:    "Time spent delivering one outbox event.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	reg.MustRegister(published, failed, deadLetters, duration)
	return &SyncPublisherMetrics{
		published:   published,
		failed:      failed,
		deadLetters: deadLetters,
		duration:    duration,
	}
}

// IncPublished increments the delivered counter for the event type.
func (s *SyncPublisherMetrics) IncPublished(eventType string) {
	if s == nil || s.published == nil {
		return
	}
	s.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed increments the failed counter for the event type.
func (s *SyncPublisherMetrics) IncFailed(eventType string) {
	if s == nil || s.failed == nil {
		return
	}
	s.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncDeadLettered increments the dead-letter counter for the event type.
func (s *SyncPublisherMetrics) IncDeadLettered(eventType string) {
	if s == nil || s.deadLetters == nil {
		return
	}
	s.deadLetters.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// ObservePublishDuration records how long one delivery took.
func (s *SyncPublisherMetrics) ObservePublishDuration(eventType string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(eventType)).Observe(duration.Seconds())
}
