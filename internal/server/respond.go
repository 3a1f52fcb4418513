package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/agrigrant-cli/internal/catalog"
	"github.com/sells-group/agrigrant-cli/internal/recommend"
	"github.com/sells-group/agrigrant-cli/internal/resilience"
)

// errBadRequest marks caller input errors (bad filters, bad JSON).
var errBadRequest = errors.New("bad request")

type badRequest struct{ err error }

func (b badRequest) Error() string   { return b.err.Error() }
func (b badRequest) Unwrap() []error { return []error{b.err, errBadRequest} }

func invalid(err error) error { return badRequest{err: err} }

// errInternal marks local failures (temp files, document builds).
var errInternal = errors.New("internal error")

type internalError struct{ err error }

func (i internalError) Error() string   { return i.err.Error() }
func (i internalError) Unwrap() []error { return []error{i.err, errInternal} }

func internal(err error) error { return internalError{err: err} }

// statusClientClosed is reported when the caller cancels its own request.
const statusClientClosed = 499

// statusFor maps domain errors onto HTTP statuses. Provider failures that
// are not otherwise classified are reported as a bad gateway.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return statusClientClosed
	case errors.Is(err, errInternal):
		return http.StatusInternalServerError
	case errors.Is(err, errBadRequest), errors.Is(err, recommend.ErrInvalidProfile):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, recommend.ErrNoAPIKey), errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case status == statusClientClosed:
		zap.L().Debug("server: request canceled",
			zap.String("request_id", requestID(r.Context())),
			zap.String("path", r.URL.Path),
		)
	case status >= http.StatusInternalServerError:
		zap.L().Error("server: request failed",
			zap.String("request_id", requestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}
