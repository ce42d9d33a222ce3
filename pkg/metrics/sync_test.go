package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSyncPublisherMetricsExports(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewSyncPublisherMetrics(reg)

	metrics.IncPublished("order_created")
	metrics.IncFailed("order_created")
	metrics.IncDeadLettered("order_created")
	metrics.ObservePublishDuration("order_created", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	for _, name := range []string{"sync_events_published", "sync_events_failed", "sync_events_dead_lettered"} {
		got, err := fetchCounterValue(mfs, name, "event_type", "order_created")
		if err != nil {
			t.Fatalf("fetch %s: %v", name, err)
		}
		if got != 1 {
			t.Fatalf("expected %s=1, got %f", name, got)
		}
	}

	sum, err := fetchHistogramSum(mfs, "sync_publish_duration_seconds", "event_type", "order_created")
	if err != nil {
		t.Fatalf("fetch duration: %v", err)
	}
	if sum <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", sum)
	}
}

func TestSyncPublisherMetricsNilSafe(t *testing.T) {
	var metrics *SyncPublisherMetrics
	metrics.IncPublished("order_created")
	metrics.IncFailed("order_created")
	metrics.IncDeadLettered("order_created")
	metrics.ObservePublishDuration("order_created", time.Second)
}
