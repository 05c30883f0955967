package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/metrics"
	"github.com/shashiranjanraj/dinehub/pkg/response"
)

// Recovery turns a handler panic into a logged stack and a bare 500. The
// panic value never reaches the client. http.ErrAbortHandler is re-raised so
// net/http can drop the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}

			metrics.Panics.WithLabelValues("http").Inc()
			logger.WithCtx(r.Context()).Error("handler panic",
				"route", r.Method+" "+r.URL.Path,
				"panic", fmt.Sprint(v),
				"stack", string(debug.Stack()),
			)
			response.Error(w, http.StatusInternalServerError, "Server Error")
		}()
		next.ServeHTTP(w, r)
	})
}
