// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/dinehub/config"
	"github.com/shashiranjanraj/dinehub/pkg/validate"
)

// ErrEmptyBody is returned when a JSON body was expected but none was sent.
var ErrEmptyBody = errors.New("request body is empty")

// MaxBodyBytes returns the configured request body size limit (default 4 MB).
func MaxBodyBytes() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", "4194304"), 10, 64)
	if err != nil || n <= 0 {
		return 4 << 20
	}
	return n
}

// JSON decodes r.Body as JSON into dest and runs validation.
// The body is capped at MAX_BODY_BYTES (default 4 MB). Unknown fields are
// ignored so clients may send extra keys (a client-computed total, say).
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is missing, malformed or too large.
func JSON(w http.ResponseWriter, r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes())

	if err = json.NewDecoder(r.Body).Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return nil, ErrEmptyBody
		default:
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	errs = validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}

	return nil, nil
}
