package dataset

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable matches every loader failure.
var ErrDataUnavailable = errors.New("data unavailable")

// DataUnavailableError reports a source that is missing, empty,
// unparseable or schema-incompatible.
type DataUnavailableError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	msg := fmt.Sprintf("data unavailable: %s", e.Reason)
	if e.Path != "" {
		msg = fmt.Sprintf("data unavailable (%s): %s", e.Path, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func (e *DataUnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

func unavailable(path, reason string, err error) error {
	return &DataUnavailableError{Path: path, Reason: reason, Err: err}
}
