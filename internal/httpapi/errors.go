package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"scoringd/internal/artifact"
	"scoringd/internal/manager"
	"scoringd/internal/model"
	"scoringd/internal/scoring"
	"scoringd/internal/tabular"
	"scoringd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case tabular.IsMalformedInput(err):
		return http.StatusBadRequest
	case manager.IsTooBusy(err):
		return http.StatusTooManyRequests
	case manager.IsTimeout(err):
		return http.StatusGatewayTimeout
	case artifact.IsNoArtifactFound(err), artifact.IsAmbiguousArtifact(err), artifact.IsConfiguration(err):
		return http.StatusServiceUnavailable
	case model.IsUnsupportedModelType(err), model.IsModelLoad(err):
		return http.StatusInternalServerError
	case scoring.IsScoringError(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &he):
		return he.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// writeJSON writes v with status 200. When v cannot be encoded a 500 is
// written instead and the encoding error returned.
func writeJSON(w http.ResponseWriter, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		return fmt.Errorf("encode response: %w", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(b, '\n'))
	return nil
}

// clientMessage is the error text sent to the caller. Client-side failures
// carry the full error (row numbers, field counts); server-side ones get a
// fixed message so paths and decoder internals stay in the logs.
func clientMessage(err error, status int) string {
	if status < http.StatusInternalServerError {
		return err.Error()
	}
	switch manager.ErrorKind(err) {
	case "configuration":
		return "model directory is not usable"
	case "no_artifact":
		return "no model artifact found"
	case "ambiguous_artifact":
		return "model directory holds more than one artifact"
	case "unsupported_model":
		return "model artifact is not a regression model"
	case "model_load":
		return "model artifact could not be loaded"
	case "timeout":
		return "request timed out"
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.Error()
	}
	return "internal error"
}
