package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/form"
)

// ErrorEnvelope standardizes JSON error responses across API namespaces.
// Meta carries request-scoped diagnostics such as the request id.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// FieldErrors maps form field names to human-readable validation messages.
type FieldErrors map[string]string

// ValidationEnvelope is returned for client-side correctable input errors.
type ValidationEnvelope struct {
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Fields  FieldErrors `json:"fields"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, code, message string, meta map[string]string) error {
	return WriteJSON(w, status, &ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// QueryFieldErrors maps a query-string decode failure onto the offending
// parameters so clients see which one to correct.
func QueryFieldErrors(err error) FieldErrors {
	fields := FieldErrors{}
	var decodeErrs form.DecodeErrors
	if errors.As(err, &decodeErrs) {
		for field := range decodeErrs {
			fields[field] = "is not a valid value"
		}
	}
	if len(fields) == 0 {
		fields["query"] = "malformed query string"
	}
	return fields
}

func WriteValidationError(w http.ResponseWriter, code string, fields FieldErrors) error {
	return WriteJSON(w, http.StatusUnprocessableEntity, &ValidationEnvelope{
		Code:    code,
		Message: "validation failed",
		Fields:  fields,
	})
}
