// Package handlers provides HTTP handler implementations for the component
// contract.
//
// This file defines the response helpers shared by all endpoints. Failures
// take one of two routes:
//
//   - typed component failures (package apperr) are recorded with abort() and
//     rendered by middleware.ErrorHandler, which also logs them;
//   - transport-level fallbacks (404/405) are written directly with Fail().
//
// Both produce the same envelope:
//
//	HTTP/1.1 422 Unprocessable Entity
//	x-correlation-id: req-1718000000000
//	{ "error": "ValidationError", "detail": "invalid JSON body" }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-component-service/internal/http/middleware"
)

// ErrorResponse is the error envelope returned by every endpoint.
//
// This struct is used in OpenAPI documentation via Swagger annotations.
type ErrorResponse struct {
	// Failure kind (ValidationError, PipelineError, DependencyError, ConfigurationError, ...)
	Error string `json:"error" example:"ValidationError"`
	// Human-readable description
	Detail string `json:"detail" example:"invalid JSON body"`
}

// DetailResponse is the protocol-level body used for auth and rate-limit
// rejections.
type DetailResponse struct {
	Detail string `json:"detail" example:"Missing or invalid Authorization header"`
}

// fail aborts the request with an ErrorResponse. Server errors (>=500) are
// logged using the request-scoped logger.
func fail(c *gin.Context, status int, name, detail string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("error_type", name).
			Str("detail", detail).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: name, Detail: detail})
}

// Fail is the exported variant of fail(), used by the router for fallbacks.
func Fail(c *gin.Context, status int, name, detail string) { fail(c, status, name, detail) }

// abort records err for middleware.ErrorHandler and stops the chain.
func abort(c *gin.Context, err error) { middleware.AbortWithError(c, err) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
