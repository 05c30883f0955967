package middleware

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/metrics"
	"github.com/shashiranjanraj/dinehub/pkg/response"
)

// Client-facing messages for rejected credentials.
const (
	MsgNoToken     = "Not authorized, no token"
	MsgTokenFailed = "Not authorized, token failed"
)

// Authenticate resolves the caller behind the Authorization header via gate
// and attaches the identity to the request context. Every rejection writes a
// 401 and returns; the next handler only runs with a resolved identity.
func Authenticate(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				metrics.AuthFailures.WithLabelValues("missing").Inc()
				response.Unauthorized(w, MsgNoToken)
				return
			}

			id, err := gate.Authenticate(r.Context(), header)
			if err != nil {
				if errors.Is(err, auth.ErrMissingCredential) {
					metrics.AuthFailures.WithLabelValues("missing").Inc()
					response.Unauthorized(w, MsgNoToken)
					return
				}
				metrics.AuthFailures.WithLabelValues("invalid").Inc()
				logger.WithCtx(r.Context()).Warn("auth: token rejected", "error", err)
				response.Unauthorized(w, MsgTokenFailed)
				return
			}

			ctx := auth.WithIdentity(r.Context(), id)
			ctx = logger.InjectLogger(ctx, logger.WithCtx(ctx).With("user_id", id.ID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
