// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements ErrorHandler, the translator from typed component
// failures (package apperr) to HTTP responses. Handlers and guards record a
// failure with c.Error(err) and abort; ErrorHandler renders it once the chain
// unwinds:
//
//	HTTP/1.1 422 Unprocessable Entity
//	x-correlation-id: req-1718000000000
//	{ "error": "ValidationError", "detail": "invalid JSON body" }
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-component-service/internal/apperr"
)

const (
	internalErrorName   = "InternalError"
	internalErrorDetail = "internal server error"
)

// ErrorHandler renders failures recorded on the Gin context.
//
// Behavior:
//   - Runs after the rest of the chain; does nothing if no error was recorded
//     or a response was already written.
//   - The most recent *apperr.Error wins: it is logged at error level
//     ("component_error", with error_type and detail) and written as
//     {"error": <kind>, "detail": <detail>} with the kind's status.
//   - Untyped errors are logged and written as a generic 500 body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		lg := LoggerFrom(c)
		if ae, ok := lastTyped(c.Errors); ok {
			lg.Error().
				Str("error_type", ae.Name()).
				Str("detail", ae.Detail).
				Err(ae.Err).
				Msg("component_error")
			c.JSON(ae.StatusCode(), gin.H{"error": ae.Name(), "detail": ae.Detail})
			return
		}

		lg.Error().Str("errors", c.Errors.String()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalErrorName, "detail": internalErrorDetail})
	}
}

// AbortWithError records err for ErrorHandler and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// lastTyped returns the most recently recorded typed failure.
func lastTyped(errs []*gin.Error) (*apperr.Error, bool) {
	for i := len(errs) - 1; i >= 0; i-- {
		if ae, ok := apperr.As(errs[i].Err); ok {
			return ae, true
		}
	}
	return nil, false
}
