// Package usage tracks token usage and cost for LLM-backed pipelines.
//
// A Metrics value accumulates one run's calls and reports them in the shape
// platform callbacks expect (domain.UsageMetricsResponse). Optional
// Prometheus counters aggregate the same figures across runs.
package usage

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-component-service/internal/domain"
	"github.com/tbourn/go-component-service/internal/observability"
)

// Collectors aggregates usage across runs.
type Collectors struct {
	inputTokens  prometheus.Counter
	outputTokens prometheus.Counter
	costUSD      prometheus.Counter
	apiCalls     prometheus.Counter
}

// NewCollectors creates the usage counters and registers them on reg
// (nil means prometheus.DefaultRegisterer).
func NewCollectors(reg prometheus.Registerer) *Collectors {
	counter := func(name, help string) prometheus.Counter {
		return observability.RegisterOrReuse(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "component",
			Subsystem: "llm",
			Name:      name,
			Help:      help,
		}))
	}
	return &Collectors{
		inputTokens:  counter("input_tokens_total", "Input tokens consumed by pipeline model calls."),
		outputTokens: counter("output_tokens_total", "Output tokens produced by pipeline model calls."),
		costUSD:      counter("cost_usd_total", "Accumulated model cost in USD."),
		apiCalls:     counter("api_calls_total", "Number of model API calls."),
	}
}

// Metrics is the usage of a single run. Safe for concurrent use.
type Metrics struct {
	mu           sync.Mutex
	inputTokens  int
	outputTokens int
	totalCostUSD float64
	apiCalls     int
	startedAt    time.Time
	completedAt  *time.Time

	col *Collectors
	now func() time.Time
}

// New starts tracking a run. col may be nil.
func New(col *Collectors) *Metrics {
	return newWithClock(col, time.Now)
}

func newWithClock(col *Collectors, now func() time.Time) *Metrics {
	return &Metrics{startedAt: now().UTC(), col: col, now: now}
}

// RecordCall adds one model call. Negative figures are treated as zero.
func (m *Metrics) RecordCall(inputTokens, outputTokens int, costUSD float64) {
	inputTokens = max(inputTokens, 0)
	outputTokens = max(outputTokens, 0)
	if costUSD < 0 || math.IsNaN(costUSD) {
		costUSD = 0
	}

	m.mu.Lock()
	m.inputTokens += inputTokens
	m.outputTokens += outputTokens
	m.totalCostUSD += costUSD
	m.apiCalls++
	m.mu.Unlock()

	if m.col != nil {
		m.col.inputTokens.Add(float64(inputTokens))
		m.col.outputTokens.Add(float64(outputTokens))
		m.col.costUSD.Add(costUSD)
		m.col.apiCalls.Inc()
	}
}

// Complete stamps the completion time. Later calls move it forward.
func (m *Metrics) Complete() {
	t := m.now().UTC()
	m.mu.Lock()
	m.completedAt = &t
	m.mu.Unlock()
}

// Snapshot reports the run so far. Cost is rounded to 6 decimal places and
// timestamps are RFC 3339; CompletedAt stays nil until Complete is called.
func (m *Metrics) Snapshot() domain.UsageMetricsResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := domain.UsageMetricsResponse{
		InputTokens:  m.inputTokens,
		OutputTokens: m.outputTokens,
		TotalCostUSD: math.Round(m.totalCostUSD*1e6) / 1e6,
		APICalls:     m.apiCalls,
		StartedAt:    m.startedAt.Format(time.RFC3339Nano),
	}
	if m.completedAt != nil {
		s := m.completedAt.Format(time.RFC3339Nano)
		out.CompletedAt = &s
	}
	return out
}

type ctxKey struct{}

// WithMetrics returns a copy of ctx carrying m, so model clients deep in a
// pipeline can record calls without extra parameters.
func WithMetrics(ctx context.Context, m *Metrics) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the Metrics stored by WithMetrics, if any.
func FromContext(ctx context.Context) (*Metrics, bool) {
	if ctx == nil {
		return nil, false
	}
	m, ok := ctx.Value(ctxKey{}).(*Metrics)
	return m, ok && m != nil
}
