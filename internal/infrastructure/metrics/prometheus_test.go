package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/authone/authone/pkg/cache/memorycache"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusExporter_RecordDecision(t *testing.T) {
	collector := NewCollector()
	c := memorycache.New(10)
	collector.SetCache(c)
	exporter := NewPrometheusExporter(collector)

	exporter.RecordDecision("allowed")
	exporter.RecordDecision("allowed")
	exporter.RecordDecision("denied")

	if got := testutil.ToFloat64(exporter.checkDecisions.WithLabelValues("allowed")); got != 2 {
		t.Errorf("allowed decisions = %v, want 2", got)
	}
	if got := testutil.ToFloat64(exporter.checkDecisions.WithLabelValues("denied")); got != 1 {
		t.Errorf("denied decisions = %v, want 1", got)
	}

	// Update mirrors the cache's own counters into the gauges.
	ctx := context.Background()
	c.Set(ctx, "k", true, time.Minute)
	c.Get(ctx, "k")
	c.Get(ctx, "missing")
	exporter.Update()

	if got := testutil.ToFloat64(exporter.cacheHits); got != 1 {
		t.Errorf("cache hits gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(exporter.cacheMisses); got != 1 {
		t.Errorf("cache misses gauge = %v, want 1", got)
	}
	if got := testutil.ToFloat64(exporter.cacheKeys); got != 1 {
		t.Errorf("cache keys gauge = %v, want 1", got)
	}
}
