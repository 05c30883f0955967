// Package router wraps chi with named routes, prefix groups and a route
// listing used by the route:list command.
package router

import (
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type Middleware func(http.Handler) http.Handler

// RouteInfo describes one registered route.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Router is the root group plus the chi mux it registers into.
type Router struct {
	base *Group
	mux  chi.Router

	mu     sync.RWMutex
	routes []RouteInfo
}

// Group registers routes under a shared prefix and middleware stack.
type Group struct {
	root   *Router
	prefix string
	stack  []Middleware
}

func New() *Router {
	r := &Router{mux: chi.NewRouter()}
	r.base = &Group{root: r}
	return r
}

func (r *Router) Group(prefix string, mws ...Middleware) *Group { return r.base.Group(prefix, mws...) }

func (r *Router) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.base.Get(path, name, h, mws...)
}

func (r *Router) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	r.base.Post(path, name, h, mws...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) { r.mux.ServeHTTP(w, req) }

// Use appends global middleware. chi panics if this runs after a route was
// registered.
func (r *Router) Use(mws ...Middleware) {
	for _, mw := range mws {
		r.mux.Use(mw)
	}
}

// Handle mounts h for every method, e.g. a file server on "/storage/*".
func (r *Router) Handle(pattern, name string, h http.Handler) {
	r.mux.Handle(pattern, h)
	r.record("*", pattern, name)
}

func (r *Router) NotFound(h http.HandlerFunc)         { r.mux.NotFound(h) }
func (r *Router) MethodNotAllowed(h http.HandlerFunc) { r.mux.MethodNotAllowed(h) }

// Routes lists every registration sorted by path, then method.
func (r *Router) Routes() []RouteInfo {
	r.mu.RLock()
	out := append([]RouteInfo(nil), r.routes...)
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

func (r *Router) record(method, path, name string) {
	r.mu.Lock()
	r.routes = append(r.routes, RouteInfo{Method: method, Path: path, Name: name})
	r.mu.Unlock()
}

// ─── Groups ───────────────────────────────────────────────────────────────────

// Group nests prefix under g; mws run after g's own middleware.
func (g *Group) Group(prefix string, mws ...Middleware) *Group {
	return &Group{
		root:   g.root,
		prefix: join(g.prefix, prefix),
		stack:  append(append([]Middleware(nil), g.stack...), mws...),
	}
}

// Route registers h for method at path. Group middleware wraps route
// middleware, which wraps h.
func (g *Group) Route(method, path, name string, h http.Handler, mws ...Middleware) {
	full := join(g.prefix, path)
	stack := append(append([]Middleware(nil), g.stack...), mws...)
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	g.root.mux.Method(method, full, h)
	g.root.record(method, full, name)
}

func (g *Group) Get(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.Route(http.MethodGet, path, name, h, mws...)
}

func (g *Group) Post(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.Route(http.MethodPost, path, name, h, mws...)
}

func (g *Group) Put(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.Route(http.MethodPut, path, name, h, mws...)
}

func (g *Group) Delete(path, name string, h http.HandlerFunc, mws ...Middleware) {
	g.Route(http.MethodDelete, path, name, h, mws...)
}

// join builds "/a/b" from any mix of slashed segments; "" and "/" vanish.
func join(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		for _, seg := range strings.Split(p, "/") {
			if seg != "" {
				b.WriteByte('/')
				b.WriteString(seg)
			}
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
