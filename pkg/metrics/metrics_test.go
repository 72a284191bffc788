package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestGlobalManagerInitialized(t *testing.T) {
	if globalManager == nil {
		t.Fatal("global metrics manager not initialized")
	}
	if GetRegistry() == nil {
		t.Fatal("custom registry not initialized")
	}
}

// The package-level helpers must be safe to call at any time.
func TestRecordHelpers(t *testing.T) {
	RecordSubmissionAccepted("scores")
	RecordSubmissionRejected("scores")
	RecordProofFailure()
	UpdateTableEntries("scores", 3)
	RecordStoreLoadLatency(1.5)
	RecordStoreSaveLatency(2.5)
	RecordCacheHit()
	RecordCacheMiss()
	RecordHTTPRequest("highscore", "GET", "200")
	RecordHTTPRequestDuration("highscore", "GET", "200", 4.2)
	RecordErrorByComponent("storage", "unavailable")

	families, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected at least one metric family after recording")
	}
}

func TestNewManagerWithCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithRegistry(reg),
		WithNamespace("test"),
		WithSubsystem("tables"),
		WithHistogramBuckets([]float64{1, 5, 10}),
	)
	if m == nil {
		t.Fatal("expected manager")
	}
	m.submissionsAccepted.WithLabelValues("scores").Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_tables_submissions_accepted_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected namespaced counter in custom registry")
	}
}
