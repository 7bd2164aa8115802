// Component HTTP handlers.
//
// This file exposes the endpoints every platform component shares:
//   - GET  /health  (liveness, no auth)
//   - GET  /ready   (readiness, pings the database when one is configured)
//   - POST /run     (accept a run; behind the internal auth gate)
//
// Handlers are transport-thin. /run acknowledges the request and returns; the
// run id is the request's correlation id.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-component-service/internal/apperr"
	"github.com/tbourn/go-component-service/internal/domain"
	"github.com/tbourn/go-component-service/internal/http/middleware"
)

// UnknownCorrelationID is used when no correlation id is attached to the
// request, which only happens when the handler runs outside the router.
const UnknownCorrelationID = "unknown"

// MessageRunAccepted is the message returned with an accepted run.
const MessageRunAccepted = "Run accepted for processing"

// ReadinessProbe reports whether the component's dependencies answer.
//
// Implementations must honor ctx for cancellation.
type ReadinessProbe interface {
	Ping(ctx context.Context) error
}

// Handlers groups the component endpoints.
type Handlers struct {
	ready ReadinessProbe
}

// New constructs Handlers. A nil probe means there is nothing to check and
// /ready always succeeds.
func New(ready ReadinessProbe) *Handlers {
	useJSONFieldNames()
	return &Handlers{ready: ready}
}

// correlationID returns the id stamped by middleware.CorrelationID, or
// UnknownCorrelationID.
func correlationID(c *gin.Context) string {
	if cid, ok := middleware.CorrelationIDFrom(c); ok {
		return cid
	}
	return UnknownCorrelationID
}

// Health godoc
// @ID          health
// @Summary     Liveness probe
// @Description Always returns 200 while the process is serving requests.
// @Tags        Component
// @Produce     json
// @Success     200  {object}  domain.HealthResponse
// @Header      200  {string}  x-correlation-id  "Correlation id (echoed or generated)"
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	ok(c, http.StatusOK, domain.HealthResponse{Status: "healthy"})
}

// Ready godoc
// @ID          ready
// @Summary     Readiness probe
// @Description Returns 200 when configured dependencies answer; 503 otherwise.
// @Tags        Component
// @Produce     json
// @Success     200  {object}  domain.ReadyResponse
// @Failure     503  {object}  handlers.ErrorResponse  "Dependency unavailable"
// @Router      /ready [get]
func (h *Handlers) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready.Ping(c.Request.Context()); err != nil {
			abort(c, apperr.Wrap(apperr.KindDependency, "database unavailable", err))
			return
		}
	}
	ok(c, http.StatusOK, domain.ReadyResponse{Status: "ready"})
}

// Run godoc
// @ID          run
// @Summary     Accept a run
// @Description Acknowledges a run request. The returned run_id equals the request's correlation id.
// @Tags        Component
// @Accept      json
// @Produce     json
// @Security    InternalAuth
//
// @Param       x-correlation-id  header  string             false  "Correlation id to propagate"  example(req-1718000000000)
// @Param       body              body    domain.RunRequest  true   "Run payload"
//
// @Success     202  {object}  domain.RunResponse
// @Header      202  {string}  x-correlation-id  "Correlation id (echoed or generated)"
// @Failure     401  {object}  handlers.DetailResponse  "Missing or invalid Authorization header"
// @Failure     403  {object}  handlers.DetailResponse  "Invalid internal secret"
// @Failure     422  {object}  handlers.ErrorResponse   "Validation error"
// @Failure     429  {object}  handlers.DetailResponse  "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse   "Configuration error"
// @Router      /run [post]
func (h *Handlers) Run(c *gin.Context) {
	var req domain.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Wrap(apperr.KindValidation, bindingDetail(err), err))
		return
	}

	cid := correlationID(c)
	keys := req.InputKeys()

	span := trace.SpanFromContext(c.Request.Context())
	span.SetAttributes(
		attribute.String("component.run_id", cid),
		attribute.Int("component.input_keys", len(keys)),
	)

	// The request-scoped logger already carries correlation_id.
	ev := middleware.LoggerFrom(c).Info()
	if cid == UnknownCorrelationID {
		ev = ev.Str("correlation_id", cid)
	}
	ev.Strs("input_keys", keys).Msg("run_received")

	ok(c, http.StatusAccepted, domain.RunResponse{
		RunID:   cid,
		Status:  domain.RunStatusAccepted,
		Message: MessageRunAccepted,
	})
}
