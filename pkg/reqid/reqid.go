// Package reqid tags every request with a correlation ID. The ID travels in
// the X-Request-ID header over HTTP and the x-request-id metadata key over
// gRPC, and logger.WithCtx picks it up from the context.
package reqid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	Header      = "X-Request-ID"
	MetadataKey = "x-request-id"
)

type ctxKey struct{}

// New returns a fresh v4 UUID.
func New() string { return uuid.NewString() }

// Valid reports whether a caller-supplied id is safe to echo into headers
// and logs: 1 to 64 characters of [A-Za-z0-9._-].
func Valid(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

// Or returns id when it is Valid and a new one otherwise.
func Or(id string) string {
	if Valid(id) {
		return id
	}
	return New()
}

func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx returns the ID stored in ctx, or "".
func FromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware reuses a well-formed upstream X-Request-ID or mints one, and
// echoes it on the response.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := Or(r.Header.Get(Header))
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
