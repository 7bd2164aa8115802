// Package domain defines the transport schemas of the component contract.
// Every platform component exposes the same shapes on /health and /run, so
// these types are shared by handlers, docs and tests.
package domain

import "sort"

// Run statuses reported in RunResponse.Status.
const (
	RunStatusAccepted = "accepted"
)

// RunRequest is the JSON payload accepted by POST /run.
//
// Fields:
//   - Input: pipeline input; optional, shape is not validated here.
//   - CallbackURL: optional callback target; passed through as given.
//   - Metadata: optional opaque caller metadata.
type RunRequest struct {
	Input       map[string]any `json:"input,omitempty"`
	CallbackURL *string        `json:"callback_url,omitempty" example:"https://api.example.com/v1/internal/jobs/123/complete"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// InputKeys returns the top-level keys of Input in sorted order, or an empty
// (non-nil) slice when Input is absent.
func (r RunRequest) InputKeys() []string {
	keys := make([]string, 0, len(r.Input))
	for k := range r.Input {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RunResponse acknowledges a run.
type RunResponse struct {
	RunID   string `json:"run_id" example:"req-1718000000000"`
	Status  string `json:"status" example:"accepted"`
	Message string `json:"message,omitempty" example:"Run accepted for processing"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}

// ReadyResponse is returned by GET /ready.
type ReadyResponse struct {
	Status string `json:"status" example:"ready"`
}

// UsageMetricsResponse reports token usage and cost for LLM-backed pipelines.
// Timestamps are RFC 3339 in UTC; CompletedAt is null until the run completes.
type UsageMetricsResponse struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	APICalls     int     `json:"api_calls"`
	StartedAt    string  `json:"started_at"`
	CompletedAt  *string `json:"completed_at"`
}
