package artifact

import (
	"errors"
	"strings"
)

// configurationError signals an unusable model directory (missing, unreadable,
// not a directory).
type configurationError struct {
	dir   string
	cause error
}

func (e *configurationError) Error() string {
	return "model directory " + e.dir + ": " + e.cause.Error()
}

func (e *configurationError) Unwrap() error { return e.cause }

// IsConfiguration reports whether err indicates a bad model directory.
func IsConfiguration(err error) bool {
	var e *configurationError
	return errors.As(err, &e)
}

type noArtifactFoundError struct{ dir string }

func (e *noArtifactFoundError) Error() string { return "no model artifact found in " + e.dir }

// IsNoArtifactFound reports whether the model directory held no candidate file.
func IsNoArtifactFound(err error) bool {
	var e *noArtifactFoundError
	return errors.As(err, &e)
}

type ambiguousArtifactError struct {
	dir        string
	candidates []string
}

func (e *ambiguousArtifactError) Error() string {
	return "ambiguous model artifact in " + e.dir + ": found " + strings.Join(e.candidates, ", ")
}

// IsAmbiguousArtifact reports whether the model directory held more than one candidate file.
func IsAmbiguousArtifact(err error) bool {
	var e *ambiguousArtifactError
	return errors.As(err, &e)
}
