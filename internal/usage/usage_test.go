package usage

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func fixedClock(ts ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := ts[min(i, len(ts)-1)]
		i++
		return t
	}
}

func TestMetrics_RecordCompleteSnapshot(t *testing.T) {
	start := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	end := start.Add(1500 * time.Millisecond)
	m := newWithClock(nil, fixedClock(start, end))

	snap := m.Snapshot()
	if snap.StartedAt != "2024-06-10T12:00:00Z" || snap.CompletedAt != nil {
		t.Fatalf("fresh snapshot = %+v", snap)
	}

	m.RecordCall(100, 20, 0.0012345678)
	m.RecordCall(50, 5, 0.0000001)
	m.Complete()

	snap = m.Snapshot()
	if snap.InputTokens != 150 || snap.OutputTokens != 25 || snap.APICalls != 2 {
		t.Fatalf("totals = %+v", snap)
	}
	if snap.TotalCostUSD != 0.001235 {
		t.Fatalf("cost not rounded to 6 places: %v", snap.TotalCostUSD)
	}
	if snap.CompletedAt == nil || *snap.CompletedAt != "2024-06-10T12:00:01.5Z" {
		t.Fatalf("completed_at = %v", snap.CompletedAt)
	}
}

func TestMetrics_SnapshotJSONHasNullCompletedAt(t *testing.T) {
	b, err := json.Marshal(New(nil).Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	if v, ok := m["completed_at"]; !ok || v != nil {
		t.Fatalf("completed_at should be present and null: %s", b)
	}
}

func TestMetrics_NegativeValuesIgnored(t *testing.T) {
	m := New(nil)
	m.RecordCall(-5, -1, -0.5)
	s := m.Snapshot()
	if s.InputTokens != 0 || s.OutputTokens != 0 || s.TotalCostUSD != 0 || s.APICalls != 1 {
		t.Fatalf("snapshot = %+v", s)
	}
}

func TestMetrics_ConcurrentRecordAndCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	col := NewCollectors(reg)
	m := New(col)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordCall(2, 1, 0.01)
		}()
	}
	wg.Wait()

	s := m.Snapshot()
	if s.APICalls != 50 || s.InputTokens != 100 || s.OutputTokens != 50 {
		t.Fatalf("snapshot = %+v", s)
	}
	if got := testutil.ToFloat64(col.apiCalls); got != 50 {
		t.Fatalf("api calls counter = %v", got)
	}
	if got := testutil.ToFloat64(col.inputTokens); got != 100 {
		t.Fatalf("input tokens counter = %v", got)
	}

	// A second constructor on the same registry shares the counters.
	if again := NewCollectors(reg); again.apiCalls != col.apiCalls {
		t.Fatalf("collectors not reused")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("empty context should not carry metrics")
	}
	m := New(nil)
	got, ok := FromContext(WithMetrics(context.Background(), m))
	if !ok || got != m {
		t.Fatalf("metrics not found in context")
	}
}
