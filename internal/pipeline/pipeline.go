// Package pipeline defines the contract a component's processing pipeline
// implements, a placeholder implementation, and Runner, which drives a
// pipeline through validation and execution while tracking usage.
//
// The HTTP /run endpoint only acknowledges requests; Runner is what a worker
// or workflow function calls to do the actual work.
package pipeline

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tbourn/go-component-service/internal/apperr"
	"github.com/tbourn/go-component-service/internal/domain"
	"github.com/tbourn/go-component-service/internal/usage"
	"github.com/tbourn/go-component-service/internal/workflow"
)

// Pipeline is implemented by each component's processing logic.
//
// ValidateInput reports bad input as an apperr validation failure. Execute
// receives the run's correlation id for logging and outbound calls; model
// calls are recorded on usage.FromContext(ctx) when present.
type Pipeline interface {
	ValidateInput(ctx context.Context, input map[string]any) error
	Execute(ctx context.Context, input map[string]any, correlationID string) (map[string]any, error)
}

// DetailNotImplemented is returned by Unimplemented.Execute.
const DetailNotImplemented = "pipeline not implemented"

// Unimplemented is the placeholder pipeline new components start from.
type Unimplemented struct{}

// ValidateInput requires a non-nil input object.
func (Unimplemented) ValidateInput(_ context.Context, input map[string]any) error {
	if input == nil {
		return apperr.Validation("input is required")
	}
	return nil
}

// Execute always fails with a pipeline error.
func (Unimplemented) Execute(context.Context, map[string]any, string) (map[string]any, error) {
	return nil, apperr.Pipeline(DetailNotImplemented)
}

// EventSender publishes workflow events; *workflow.Client implements it.
type EventSender interface {
	Send(ctx context.Context, events ...workflow.Event) ([]string, error)
}

// Result is the outcome of a completed run.
type Result struct {
	Output map[string]any
	Usage  domain.UsageMetricsResponse
}

// Runner executes a Pipeline.
//
// When Events is set, a "<component>/run.completed" or "<component>/run.failed"
// event is published after each run; publishing failures are logged and do
// not change the run's result.
type Runner struct {
	Pipeline   Pipeline
	Collectors *usage.Collectors // optional
	Events     EventSender       // optional
	Component  string
}

// Run validates input, executes the pipeline and returns its output with the
// run's usage. Untyped pipeline failures are wrapped as apperr pipeline errors.
func (r *Runner) Run(ctx context.Context, input map[string]any, correlationID string) (Result, error) {
	ctx, span := otel.Tracer("github.com/tbourn/go-component-service/internal/pipeline").Start(ctx, "pipeline.run")
	defer span.End()
	span.SetAttributes(attribute.String("component.run_id", correlationID))

	meter := usage.New(r.Collectors)
	ctx = usage.WithMetrics(ctx, meter)
	lg := zerolog.Ctx(ctx).With().Str("correlation_id", correlationID).Logger()

	out, err := r.run(ctx, input, correlationID)
	meter.Complete()
	res := Result{Output: out, Usage: meter.Snapshot()}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		lg.Error().Err(err).Msg("pipeline_failed")
		r.publish(ctx, &lg, "run.failed", correlationID, map[string]any{"error": err.Error(), "usage": res.Usage})
		return res, err
	}

	lg.Info().
		Int("api_calls", res.Usage.APICalls).
		Float64("total_cost_usd", res.Usage.TotalCostUSD).
		Msg("pipeline_completed")
	r.publish(ctx, &lg, "run.completed", correlationID, map[string]any{"usage": res.Usage})
	return res, nil
}

func (r *Runner) run(ctx context.Context, input map[string]any, correlationID string) (map[string]any, error) {
	if r.Pipeline == nil {
		return nil, apperr.Configuration("pipeline not configured")
	}
	if err := r.Pipeline.ValidateInput(ctx, input); err != nil {
		return nil, asTyped(apperr.KindValidation, "invalid input", err)
	}
	out, err := r.Pipeline.Execute(ctx, input, correlationID)
	if err != nil {
		return nil, asTyped(apperr.KindPipeline, "pipeline failed", err)
	}
	return out, nil
}

func (r *Runner) publish(ctx context.Context, lg *zerolog.Logger, suffix, correlationID string, data map[string]any) {
	if r.Events == nil {
		return
	}
	data["run_id"] = correlationID
	name := r.Component + "/" + suffix
	if _, err := r.Events.Send(ctx, workflow.Event{Name: name, Data: data}); err != nil {
		lg.Warn().Err(err).Str("event", name).Msg("workflow event not sent")
	}
}

// asTyped keeps typed failures as they are and wraps anything else.
func asTyped(kind apperr.Kind, detail string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(kind, detail, err)
}
