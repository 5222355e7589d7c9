package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrPreconditionFailed = errors.New("save precondition failed")
)

// FieldError is a client-visible failure with messages keyed by request field.
// It unwraps to Kind, which is ErrNotFound or ErrValidation.
type FieldError struct {
	Kind   error
	Fields map[string]string
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%v: %s", e.Kind, strings.Join(parts, "; "))
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

func notFound(field, format string, args ...any) *FieldError {
	return &FieldError{Kind: ErrNotFound, Fields: map[string]string{field: fmt.Sprintf(format, args...)}}
}

func invalid(fields map[string]string) *FieldError {
	return &FieldError{Kind: ErrValidation, Fields: fields}
}

// Fields extracts field messages from err, or nil when err carries none.
func Fields(err error) map[string]string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Fields
	}
	return nil
}
