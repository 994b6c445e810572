package tabular

import (
	"errors"
	"fmt"
)

// malformedInputError signals a payload that cannot be turned into records.
// Row is the 1-based data row, 0 for the header or tokenizer-level failures.
type malformedInputError struct {
	row   int
	msg   string
	cause error
}

func (e *malformedInputError) Error() string {
	s := "malformed input: " + e.msg
	if e.row > 0 {
		s = fmt.Sprintf("malformed input: row %d: %s", e.row, e.msg)
	}
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *malformedInputError) Unwrap() error { return e.cause }

// ErrMalformedInput constructs a malformed input error.
func ErrMalformedInput(row int, msg string, cause error) error {
	return &malformedInputError{row: row, msg: msg, cause: cause}
}

// IsMalformedInput reports whether err was caused by an undecodable payload.
func IsMalformedInput(err error) bool {
	var e *malformedInputError
	return errors.As(err, &e)
}
