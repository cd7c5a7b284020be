// Package response writes the JSON envelope every endpoint uses.
//
// Failure responses carry the taxonomy code from pkg/apperr so clients can
// branch on machine-readable kinds instead of parsing messages.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/ruberanziza1/alx-project-nexus/pkg/apperr"
)

type envelope struct {
	Status  int         `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Message sends a 200 with a human-readable message and optional data.
func Message(w http.ResponseWriter, msg string, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Message: msg, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error response with an explicit status and code.
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, envelope{Status: status, Code: code, Message: message})
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Code:    string(apperr.KindValidation),
		Message: "Validation failed",
		Errors:  errs,
	})
}

// FromError maps a business error to its taxonomy status/code. Errors
// outside the taxonomy become a generic 500 so internals never leak.
func FromError(w http.ResponseWriter, err error) {
	e := apperr.From(err)
	if e == nil {
		Error(w, http.StatusInternalServerError, "internal_error", "Internal Server Error")
		return
	}

	status := apperr.HTTPStatus(e.Kind)
	if e.Kind == apperr.KindValidation && e.Fields != nil {
		write(w, status, envelope{
			Status:  status,
			Code:    string(e.Kind),
			Message: e.Message,
			Errors:  e.Fields,
		})
		return
	}
	Error(w, status, string(e.Kind), e.Message)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, string(apperr.KindAuth), "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, string(apperr.KindAuth), "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, string(apperr.KindNotFound), "Not found")
}
