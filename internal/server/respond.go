package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/desertthunder/kedoo/internal/shared"
)

// maxBodyBytes bounds request bodies; covers are inlined as data URIs.
const maxBodyBytes = 16 << 20

type errorBody struct {
	Error string `json:"error"`
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{shared.ErrNotAuthenticated, http.StatusUnauthorized},
	{shared.ErrInvalidCredentials, http.StatusUnauthorized},
	{shared.ErrForbidden, http.StatusForbidden},
	{shared.ErrUserNotFound, http.StatusNotFound},
	{shared.ErrReleaseNotFound, http.StatusNotFound},
	{shared.ErrTicketNotFound, http.StatusNotFound},
	{shared.ErrEmailTaken, http.StatusConflict},
	{shared.ErrDuplicateID, http.StatusConflict},
	{shared.ErrConflict, http.StatusConflict},
	{shared.ErrInvalidTransition, http.StatusConflict},
	{shared.ErrInsufficientFunds, http.StatusPaymentRequired},
	{shared.ErrIncompleteStep, http.StatusUnprocessableEntity},
	{shared.ErrInvalidInput, http.StatusUnprocessableEntity},
	{shared.ErrMissingArgument, http.StatusBadRequest},
	{shared.ErrInvalidArgument, http.StatusBadRequest},
	{shared.ErrInvalidFlag, http.StatusBadRequest},
}

// statusFor maps an error to an HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// decode reads a JSON body into v. Unknown fields are rejected.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: request body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}
