// Package auth implements the internal service-to-service credential check.
//
// Callers present "Authorization: Internal <secret>". The secret is a single
// process-wide value from configuration; end-user authentication happens at an
// upstream platform layer and is not handled here.
//
// VerifyInternal returns an explicit result instead of writing a response, so
// the HTTP layer decides how each outcome is rendered:
//   - (*apperr.Error, KindConfiguration): the secret is not configured. This is
//     a deployment problem and goes through the typed error mapper.
//   - (*Failure): the caller's credential is absent, malformed or wrong. These
//     are plain protocol-level responses (401 / 403).
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/tbourn/go-component-service/internal/apperr"
)

// Scheme is the literal Authorization prefix, including the trailing space.
const Scheme = "Internal "

// Messages returned to callers. They are part of the public contract.
const (
	MsgMissingHeader = "Missing or invalid Authorization header"
	MsgInvalidSecret = "Invalid internal secret"
	MsgSecretUnset   = "PLATFORM_INTERNAL_SECRET not configured"
)

// Failure is a caller credential failure with a fixed status and message.
type Failure struct {
	Status int
	Detail string
}

func (f *Failure) Error() string { return "internal auth: " + f.Detail }

var (
	// ErrMissingHeader is returned when the header is absent or lacks the scheme.
	ErrMissingHeader = &Failure{Status: http.StatusUnauthorized, Detail: MsgMissingHeader}
	// ErrInvalidSecret is returned when the presented token does not match.
	ErrInvalidSecret = &Failure{Status: http.StatusForbidden, Detail: MsgInvalidSecret}
)

// VerifyInternal checks an Authorization header value against secret and
// returns the presented token on success.
//
// Order of checks: configured secret, header shape, token equality. An empty
// secret always fails closed.
func VerifyInternal(header, secret string) (string, error) {
	if secret == "" {
		return "", apperr.Configuration(MsgSecretUnset)
	}
	if !strings.HasPrefix(header, Scheme) {
		return "", ErrMissingHeader
	}
	token := strings.TrimPrefix(header, Scheme)
	if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		return "", ErrInvalidSecret
	}
	return token, nil
}

// Header formats an Authorization header value for secret. Used by outbound
// clients and tests.
func Header(secret string) string { return Scheme + secret }
