// Package correlation carries the per-request correlation identifier through
// a context.Context. The HTTP middleware assigns the id; handlers, loggers and
// outbound clients read it from here.
package correlation

import (
	"context"
	"strconv"
	"time"
)

// Header is the HTTP header used to receive and echo the correlation id.
const Header = "x-correlation-id"

// Prefix starts every generated correlation id.
const Prefix = "req-"

type ctxKey struct{}

// New returns a time-based fallback id: "req-" + milliseconds since epoch.
func New(now time.Time) string {
	return Prefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// WithID returns a copy of ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id stored by WithID, if any.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
