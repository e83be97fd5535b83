package server

import (
	"encoding/json"
	"errors"
	"net/http"

	lgerrors "github.com/matzehuels/labelgraph/pkg/errors"
)

// errorResponse is the JSON body of every error response.
type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch lgerrors.GetCode(err) {
	case lgerrors.ErrCodeInvalidInput,
		lgerrors.ErrCodeInvalidFormat,
		lgerrors.ErrCodeInvalidSeparator,
		lgerrors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case lgerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case lgerrors.ErrCodeUnsupported:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(lgerrors.GetCode(err))
	switch {
	case status == http.StatusRequestEntityTooLarge:
		code = "BODY_TOO_LARGE"
	case code == "":
		code = string(lgerrors.ErrCodeInternal)
	}

	msg := lgerrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeStatus(w, r, status, code, msg)
}

func writeStatus(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     code,
		Message:   msg,
		RequestID: RequestID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
