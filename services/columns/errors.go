package columns

import (
	"errors"
	"fmt"

	"mutations/api/models/constants"
)

var ErrColumnNotFound = errors.New("column not found")

// MissingFieldError is returned when a column without a render strategy
// looks up a field that does not exist on the row's representative record.
type MissingFieldError struct {
	Column string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("column '%s': field '%s' does not exist on record", e.Column, e.Field)
}

// AmbiguousKeyError is returned when the same column key is registered twice.
type AmbiguousKeyError struct {
	Key string
}

func (e *AmbiguousKeyError) Error() string {
	return fmt.Sprintf("column '%s' is registered more than once", e.Key)
}

type NotSortableError struct {
	Column string
}

func (e *NotSortableError) Error() string {
	return fmt.Sprintf("column '%s' is not sortable", e.Column)
}

type NotToggleableError struct {
	Column     string
	Visibility constants.Visibility
}

func (e *NotToggleableError) Error() string {
	return fmt.Sprintf("column '%s' cannot be toggled to '%s'", e.Column, e.Visibility)
}

type InvalidDescriptorError struct {
	Key    string
	Reason string
}

func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("invalid column '%s': %s", e.Key, e.Reason)
}
