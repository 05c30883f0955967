// Package ctx gives handlers one *Context instead of the (w, r) pair, with
// the path/query accessors, the caller identity, body binding and the JSON
// envelopes from pkg/response:
//
//	func (oc *OrderController) Show(c *ctx.Context) {
//	    order, err := oc.orders.Get(c.Context(), c.Param("id"))
//	    if err != nil { ... }
//	    c.Success(order)
//	}
package ctx

import (
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/bind"
	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/response"
)

type HandlerFunc func(c *Context)

// Wrap adapts h for any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(&Context{W: &tracker{ResponseWriter: w}, R: r})
	}
}

type Context struct {
	W http.ResponseWriter
	R *http.Request
}

// tracker remembers the first status written.
type tracker struct {
	http.ResponseWriter
	status int
}

func (t *tracker) WriteHeader(code int) {
	if t.status == 0 {
		t.status = code
	}
	t.ResponseWriter.WriteHeader(code)
}

func (t *tracker) Write(b []byte) (int, error) {
	if t.status == 0 {
		t.status = http.StatusOK
	}
	return t.ResponseWriter.Write(b)
}

// Status is the code written so far, or 0.
func (c *Context) Status() int {
	if t, ok := c.W.(*tracker); ok {
		return t.status
	}
	return 0
}

// ─── Request ──────────────────────────────────────────────────────────────────

func (c *Context) Param(key string) string { return chi.URLParam(c.R, key) }
func (c *Context) Query(key string) string { return c.R.URL.Query().Get(key) }
func (c *Context) Method() string          { return c.R.Method }
func (c *Context) Path() string            { return c.R.URL.Path }

func (c *Context) Context() context.Context { return c.R.Context() }

// Log is the request-scoped logger, tagged with request_id.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// Identity is the caller attached by middleware.Authenticate.
func (c *Context) Identity() (auth.Identity, bool) { return auth.IdentityFrom(c.R.Context()) }

// FormFile opens an uploaded multipart file, bounded by MAX_BODY_BYTES.
func (c *Context) FormFile(field string) (multipart.File, *multipart.FileHeader, error) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, bind.MaxBodyBytes())
	return c.R.FormFile(field)
}

// BindJSON decodes and validates the body into dest. On failure the 400 has
// already been written and false is returned; field errors go under errors.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.W, c.R, dest)
	switch {
	case err != nil:
		c.Error(http.StatusBadRequest, err.Error())
		return false
	case len(errs) > 0:
		response.ValidationError(c.W, errs)
		return false
	}
	return true
}

// ─── Response ─────────────────────────────────────────────────────────────────

func (c *Context) JSON(code int, v any)           { response.JSON(c.W, code, v) }
func (c *Context) Success(data any)               { response.Success(c.W, data) }
func (c *Context) Created(data any)               { response.Created(c.W, data) }
func (c *Context) OK(message string)              { response.OK(c.W, message) }
func (c *Context) Error(code int, message string) { response.Error(c.W, code, message) }
func (c *Context) Unauthorized(message string)    { response.Unauthorized(c.W, message) }
func (c *Context) Forbidden(message string)       { response.Forbidden(c.W, message) }
func (c *Context) NotFound(message string)        { response.NotFound(c.W, message) }
