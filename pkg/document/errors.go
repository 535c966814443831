package document

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a path does not name an element.
var ErrNotFound = errors.New("element not found")

// ErrRemoved is returned when operating on an element that has been removed or discarded.
var ErrRemoved = errors.New("element has been removed")

// ErrInvalidName is returned for empty element names or names containing a slash.
var ErrInvalidName = errors.New("invalid element name")

// ErrRootRemoval is returned when trying to remove the root element.
var ErrRootRemoval = errors.New("root element cannot be removed")

// ErrUnknownOp is returned for edits with an unsupported operation.
var ErrUnknownOp = errors.New("unknown edit operation")

// ValidationError reports an element whose staged state violates a rule.
type ValidationError struct {
	Path   string `json:"path" yaml:"path"`
	Reason string `json:"reason" yaml:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func invalid(e *Element, format string, args ...any) *ValidationError {
	return &ValidationError{Path: e.Path(), Reason: fmt.Sprintf(format, args...)}
}
