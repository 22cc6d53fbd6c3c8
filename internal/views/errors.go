package views

import (
	"errors"
	"fmt"
)

var (
	// ErrEntityNotFound matches *EntityNotFoundError.
	ErrEntityNotFound = errors.New("entity not found")
	// ErrUnknownField is returned for a field the dataset does not carry.
	ErrUnknownField = errors.New("unknown field")
)

// EntityNotFoundError indicates no record matches a (country, city) pair.
type EntityNotFoundError struct {
	Entity EntityRef
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity not found: %s, %s", e.Entity.City, e.Entity.Country)
}

func (e *EntityNotFoundError) Is(target error) bool { return target == ErrEntityNotFound }

func unknownField(field string) error {
	return fmt.Errorf("%w: %q", ErrUnknownField, field)
}
