package bind_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/dinehub/pkg/bind"
)

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

func TestJSONDecodesAndValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":"Preparing","extra":1}`))
	var in statusInput
	errs, err := bind.JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "Preparing", in.Status)
}

func TestJSONValidationErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`))
	var in statusInput
	errs, err := bind.JSON(httptest.NewRecorder(), req, &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "status")
}

func TestJSONMalformedAndEmpty(t *testing.T) {
	var in statusInput

	_, err := bind.JSON(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"status":`)), &in)
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = bind.JSON(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/", strings.NewReader("")), &in)
	assert.ErrorIs(t, err, bind.ErrEmptyBody)
}
