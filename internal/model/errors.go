package model

import "errors"

// modelLoadError wraps any failure to turn an artifact file into a predictor.
type modelLoadError struct {
	path  string
	cause error
}

func (e *modelLoadError) Error() string {
	return "load model " + e.path + ": " + e.cause.Error()
}

func (e *modelLoadError) Unwrap() error { return e.cause }

// ErrModelLoad constructs a model load error for path.
func ErrModelLoad(path string, cause error) error { return &modelLoadError{path: path, cause: cause} }

// IsModelLoad reports whether err is an artifact I/O or deserialization failure.
func IsModelLoad(err error) bool {
	var e *modelLoadError
	return errors.As(err, &e)
}

// unsupportedModelTypeError signals an artifact without the regression capability.
type unsupportedModelTypeError struct {
	path string
	task string
}

func (e *unsupportedModelTypeError) Error() string {
	return "provided artifact is not a regression-capable model: " + e.path + " (task " + e.task + ")"
}

// IsUnsupportedModelType reports whether the artifact declared a task other than regression.
func IsUnsupportedModelType(err error) bool {
	var e *unsupportedModelTypeError
	return errors.As(err, &e)
}
