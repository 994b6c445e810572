package scoring

import (
	"errors"
	"fmt"
)

// scoringError reports the data row whose scoring aborted the request.
type scoringError struct {
	row   int
	cause error
}

func (e *scoringError) Error() string {
	return fmt.Sprintf("scoring failed at row %d: %v", e.row, e.cause)
}

func (e *scoringError) Unwrap() error { return e.cause }

// IsScoringError reports whether err came from scoring a record.
func IsScoringError(err error) bool {
	var e *scoringError
	return errors.As(err, &e)
}

// FailedRow returns the 1-based data row carried by a scoring error.
func FailedRow(err error) (int, bool) {
	var e *scoringError
	if errors.As(err, &e) {
		return e.row, true
	}
	return 0, false
}
