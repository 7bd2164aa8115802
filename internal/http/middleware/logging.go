// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the correlation id stamp, the request-scoped logger and
// a panic-safe recovery handler:
//
//   - CorrelationID() ensures every request carries a correlation id
//     (propagated via x-correlation-id and stored in both the Gin context and
//     the request context.Context).
//   - ContextLogger() attaches a request-scoped zerolog.Logger carrying the
//     correlation id, so handlers and downstream clients log with it.
//   - Recovery() converts panics into JSON 500 responses while preserving the
//     correlation id and emitting a stack trace to logs.
//   - LoggerFrom() retrieves the request-scoped logger.
//
// Recommended order:
//  1. CorrelationID()
//  2. ContextLogger()
//  3. RedactingLogger()
//  4. Recovery()
//  5. ErrorHandler()
//
// so that panics and typed failures include the correlation id and are logged.
package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-component-service/internal/correlation"
)

const (
	// correlationIDKey is the Gin context key under which the correlation id is stored.
	correlationIDKey = "correlationID"
	// loggerKey is the Gin context key for the request-scoped logger.
	loggerKey = "logger"
	// maxQueryLogLength caps the number of bytes of the raw query string logged.
	maxQueryLogLength = 2048
)

// nowFunc is the clock used for generated correlation ids.
var nowFunc = time.Now

// CorrelationID attaches (or propagates) a correlation identifier per request.
//
// Behavior:
//   - If the incoming request has a non-blank x-correlation-id, that value is
//     used verbatim. Otherwise "req-<unix millis>" is generated.
//   - The id is stored in the Gin context and in the request context.
//   - The id is written to the response header before the chain runs, since
//     net/http commits headers on the first write, and re-asserted afterwards
//     when nothing was written. Every response, including failures, carries it.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid := c.GetHeader(correlation.Header)
		// A blank header carries nothing to correlate on.
		if strings.TrimSpace(cid) == "" {
			cid = correlation.New(nowFunc())
		}
		c.Set(correlationIDKey, cid)
		c.Request = c.Request.WithContext(correlation.WithID(c.Request.Context(), cid))
		c.Writer.Header().Set(correlation.Header, cid)

		c.Next()

		if !c.Writer.Written() {
			c.Writer.Header().Set(correlation.Header, cid)
		}
	}
}

// CorrelationIDFrom returns the id stored by CorrelationID, if any.
func CorrelationIDFrom(c *gin.Context) (string, bool) {
	if v, ok := c.Get(correlationIDKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	if c.Request != nil {
		return correlation.FromContext(c.Request.Context())
	}
	return "", false
}

// ContextLogger builds a request-scoped logger with the correlation id,
// method, route and client address, stores it in the Gin context (key
// "logger") and in the request context (zerolog.Ctx).
//
// Place it after CorrelationID().
func ContextLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		cid, _ := CorrelationIDFrom(c)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		l := log.With().
			Str("correlation_id", cid).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Logger()

		c.Set(loggerKey, &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Next()
	}
}

// Recovery intercepts panics, logs a stack trace, and returns a JSON 500 error.
//
// Behavior:
//   - Logs the panic value and stack trace with the correlation id.
//   - If no response has been written, emits the standard error body:
//     { "error": "InternalError", "detail": "internal server error" }
//   - Ensures the x-correlation-id header is present on the response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				cid, _ := CorrelationIDFrom(c)
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("correlation_id", cid).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header(correlation.Header, cid)
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"error":  internalErrorName,
						"detail": internalErrorDetail,
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger.
//
// If ContextLogger did not run, a fallback logger is returned (without
// request-scoped fields). Callers can use the result without nil checks.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// truncate returns s unchanged when within max length, otherwise it truncates
// s to max bytes and appends an ellipsis. A max <= 0 disables truncation.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
