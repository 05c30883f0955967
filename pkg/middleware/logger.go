package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/reqid"
)

type observed struct {
	http.ResponseWriter
	status int
	size   int
}

func (o *observed) WriteHeader(code int) {
	if o.status == 0 {
		o.status = code
	}
	o.ResponseWriter.WriteHeader(code)
}

func (o *observed) Write(b []byte) (int, error) {
	if o.status == 0 {
		o.status = http.StatusOK
	}
	n, err := o.ResponseWriter.Write(b)
	o.size += n
	return n, err
}

// accessLevel maps a response code onto the log level of its access line.
func accessLevel(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// Logger scopes a request_id-tagged logger to the request and writes one
// access line when the handler returns. It must run after reqid.Middleware.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), log))

		o := &observed{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(o, r)
		if o.status == 0 {
			o.status = http.StatusOK
		}

		log.Log(r.Context(), accessLevel(o.status), "request",
			slog.Group("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", o.status,
				"bytes", o.size,
			),
			"took", time.Since(start),
			"ip", clientIP(r),
		)
	})
}
