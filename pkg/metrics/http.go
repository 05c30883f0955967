package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

type statusWriter struct {
	http.ResponseWriter
	code  int
	wrote int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.wrote += n
	return n, err
}

// Middleware records count, latency and size per route. Install it first so
// the status written by Recovery is seen too.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			InFlight.Inc()
			defer InFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)

			// The pattern is only complete once chi has routed the request.
			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			code := strconv.Itoa(sw.code)

			RequestTotal.WithLabelValues(r.Method, route, code).Inc()
			RequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
			ResponseSize.WithLabelValues(r.Method, route).Observe(float64(sw.wrote))
		})
	}
}
