// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements InternalAuth, the service-to-service guard for
// protected routes. It delegates the decision to auth.VerifyInternal and maps
// the result:
//
//   - ok: the presented token is stored under an internal context key and the
//     chain continues. The token is never logged.
//   - *auth.Failure (401/403): written directly as {"detail": "..."}; these are
//     caller credential problems and skip the typed error logging path.
//   - *apperr.Error (secret not configured): recorded for ErrorHandler, which
//     logs it and answers 500 ConfigurationError.
package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-component-service/internal/auth"
)

// HeaderAuthorization carries the "Internal <secret>" credential.
const HeaderAuthorization = "Authorization"

const ctxKeyInternalToken = "auth.internal_token"

// InternalAuth returns a guard that validates the Authorization header
// against secret. The secret is captured once; an empty secret fails every
// request closed.
func InternalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.VerifyInternal(c.GetHeader(HeaderAuthorization), secret)
		if err != nil {
			var f *auth.Failure
			if errors.As(err, &f) {
				LoggerFrom(c).Warn().Int("status", f.Status).Msg("internal auth rejected")
				c.AbortWithStatusJSON(f.Status, gin.H{"detail": f.Detail})
				return
			}
			AbortWithError(c, err)
			return
		}
		c.Set(ctxKeyInternalToken, token)
		c.Next()
	}
}

// InternalToken returns the validated token stored by InternalAuth.
func InternalToken(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyInternalToken)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
