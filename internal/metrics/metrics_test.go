package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCounters(t *testing.T) {
	Init()

	before := testutil.ToFloat64(pagesDiscoveredTotal)
	ObserveDiscovered()
	ObserveDiscovered()
	if got := testutil.ToFloat64(pagesDiscoveredTotal) - before; got != 2 {
		t.Errorf("pages discovered delta = %v, want 2", got)
	}

	before = testutil.ToFloat64(crawlErrorsTotal)
	ObserveCrawlError()
	if got := testutil.ToFloat64(crawlErrorsTotal) - before; got != 1 {
		t.Errorf("crawl errors delta = %v, want 1", got)
	}
}

func TestObserveDecisionLabels(t *testing.T) {
	Init()

	before := testutil.ToFloat64(decisionsTotal.WithLabelValues("too_recent"))
	ObserveDecision("too_recent")
	ObserveDecision("too_recent")
	ObserveDecision("eligible")

	if got := testutil.ToFloat64(decisionsTotal.WithLabelValues("too_recent")) - before; got != 2 {
		t.Errorf("too_recent delta = %v, want 2", got)
	}
}

func TestSetCacheSize(t *testing.T) {
	Init()

	SetCacheSize(42)
	if got := testutil.ToFloat64(deliveryCacheSize); got != 42 {
		t.Errorf("cache size = %v, want 42", got)
	}
	SetCacheSize(7)
	if got := testutil.ToFloat64(deliveryCacheSize); got != 7 {
		t.Errorf("cache size = %v, want 7", got)
	}
}

func TestInitIdempotent(t *testing.T) {
	Init()
	Init()
	ObserveNotification("success")
}
