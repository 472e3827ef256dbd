package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestManagerRegistersOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(WithPrometheusRegistry(reg), WithNamespace("test"), WithSubsystem("unit"))

	m.filesLoaded.Inc()
	m.runsIngested.Inc()
	m.runsIngested.Inc()

	if got := testutil.ToFloat64(m.filesLoaded); got != 1 {
		t.Errorf("files loaded: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.runsIngested); got != 2 {
		t.Errorf("runs ingested: expected 2, got %v", got)
	}

	names, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, mf := range names {
		if strings.HasPrefix(mf.GetName(), "test_unit_") {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected metrics under the test_unit_ prefix")
	}
}

func TestPackageHelpersDoNotPanic(t *testing.T) {
	RecordFileLoaded()
	RecordParseFailure()
	RecordIngest()
	RecordNotification()
	UpdateIndexScenarioCount(3)
	UpdateIndexRunCount(10)
	RecordIndexUpdateLatency(1.5)
	RecordIndexQueryLatency(0.5)
	UpdateQueueSize(1)
	UpdateQueueCapacity(100)
	UpdateQueueUtilization(0.01)
	RecordQueueEnqueue()
	RecordQueueDequeue()
	RecordQueueEnqueueError()
	RecordWatcherEvent()
	RecordWatcherError()
	RecordIngestLatency(2.0)
	RecordErrorByComponent("repository", "unknown_scenario")
	RecordHTTPRequest("scenarios", "GET", "200")
	RecordHTTPRequestDuration("scenarios", "GET", "200", 1.2)

	if GetRegistry() == nil {
		t.Error("expected the scrape registry to be available")
	}
}
