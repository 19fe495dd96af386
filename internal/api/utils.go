package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iamvkosarev/learning-assistant/internal/logging"
)

// statusError carries the HTTP status a handler error should be reported with.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string {
	return e.err.Error()
}

func (e *statusError) Unwrap() error {
	return e.err
}

func WithStatus(status int, err error) error {
	return &statusError{status: status, err: err}
}

func Errorf(status int, format string, args ...any) error {
	return &statusError{status: status, err: fmt.Errorf(format, args...)}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler adapts a handler returning a JSON payload. Errors without a status
// are reported as 500; a nil payload is written as an empty object.
func Handler(handle func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handle(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if res == nil {
			res = struct{}{}
		}
		writeJSON(w, r, http.StatusOK, res)
	}
}

func DecodeBody[T any](r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		return data, Errorf(http.StatusBadRequest, "unable to parse request body: %w", err)
	}
	return data, nil
}

func PathParam(r *http.Request, key string) (string, error) {
	param := chi.URLParam(r, key)
	if param == "" {
		return "", Errorf(http.StatusBadRequest, "missing {%s} url parameter", key)
	}
	return param, nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var serr *statusError
	if errors.As(err, &serr) {
		status = serr.status
	}

	log := logging.From(r.Context()).With("status", status, "error", err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Debug("request rejected")
	}
	writeJSON(w, r, status, ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.From(r.Context()).Error("failed to encode response body", "error", err)
	}
}
