package manager

import (
	"context"
	"errors"

	"scoringd/internal/artifact"
	"scoringd/internal/model"
	"scoringd/internal/scoring"
	"scoringd/internal/tabular"
)

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{ reason string }

func (e tooBusyError) Error() string { return "too busy: " + e.reason }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var e tooBusyError
	return errors.As(err, &e)
}

// timeoutError signals that the request deadline passed during a pipeline phase.
type timeoutError struct{ phase string }

func (e timeoutError) Error() string { return "request timed out during " + e.phase }

func (e timeoutError) Unwrap() error { return context.DeadlineExceeded }

// IsTimeout reports whether err is a pipeline deadline.
func IsTimeout(err error) bool {
	var e timeoutError
	return errors.As(err, &e)
}

// ErrorKind classifies a pipeline error for logs and metric labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTooBusy(err):
		return "too_busy"
	case IsTimeout(err):
		return "timeout"
	case tabular.IsMalformedInput(err):
		return "malformed_input"
	case artifact.IsConfiguration(err):
		return "configuration"
	case artifact.IsNoArtifactFound(err):
		return "no_artifact"
	case artifact.IsAmbiguousArtifact(err):
		return "ambiguous_artifact"
	case model.IsUnsupportedModelType(err):
		return "unsupported_model"
	case model.IsModelLoad(err):
		return "model_load"
	case scoring.IsScoringError(err):
		return "scoring"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}

// TooBusyReason returns the backpressure reason (queue_full, wait_timeout)
// or "" when err is not a TooBusy error.
func TooBusyReason(err error) string {
	var e tooBusyError
	if errors.As(err, &e) {
		return e.reason
	}
	return ""
}

// contextErr maps a context failure during phase to a timeout error when the
// deadline passed. Other errors are returned unchanged.
func contextErr(phase string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutError{phase: phase}
	}
	return err
}
