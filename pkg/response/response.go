// Package response writes the JSON envelopes every dinehub endpoint returns:
//
//	{"status":200,"data":...}
//	{"status":404,"message":"Order not found"}
package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

type errorEnvelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Errors  interface{} `json:"errors,omitempty"`
}

// JSON writes body with the given status code.
func JSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// OK sends a 200 carrying only a message, e.g. after a delete.
func OK(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, envelope{Status: http.StatusOK, Message: message})
}

// Error sends a JSON error response. The body always carries message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, errorEnvelope{Status: status, Message: message})
}

// ValidationError sends a 400 with the field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusBadRequest, errorEnvelope{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}
