package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CORSPolicy lists who may call the API from a browser. An origin entry is
// an exact origin, "*", or "https://*.example.com" for any subdomain.
type CORSPolicy struct {
	Origins []string
	Methods []string
	Headers []string
	MaxAge  time.Duration
}

// NewCORSPolicy allows origins (all when empty) with the verbs and headers
// the REST API uses.
func NewCORSPolicy(origins ...string) CORSPolicy {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSPolicy{
		Origins: origins,
		Methods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		Headers: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:  5 * time.Minute,
	}
}

// allow returns the Access-Control-Allow-Origin value for origin, or "".
func (p CORSPolicy) allow(origin string) string {
	for _, o := range p.Origins {
		switch {
		case o == "*":
			return "*"
		case origin == "":
		case o == origin:
			return origin
		case strings.Contains(o, "://*."):
			scheme, suffix, _ := strings.Cut(o, "*")
			if strings.HasPrefix(origin, scheme) && strings.HasSuffix(origin, suffix) {
				return origin
			}
		}
	}
	return ""
}

// CORS decorates responses for allowed origins and answers preflights with
// 204 without reaching next.
func CORS(p CORSPolicy) func(http.Handler) http.Handler {
	methods := strings.Join(p.Methods, ", ")
	headers := strings.Join(p.Headers, ", ")
	maxAge := strconv.Itoa(int(p.MaxAge.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed := p.allow(r.Header.Get("Origin")); allowed != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowed)
				h.Set("Access-Control-Expose-Headers", "X-Request-ID")
				if allowed != "*" {
					h.Add("Vary", "Origin")
				}
				if r.Method == http.MethodOptions {
					h.Set("Access-Control-Allow-Methods", methods)
					h.Set("Access-Control-Allow-Headers", headers)
					h.Set("Access-Control-Max-Age", maxAge)
				}
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
