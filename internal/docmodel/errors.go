package docmodel

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrUnknownVerb  = errors.New("unknown http verb")
)

// FieldError locates a data-integrity problem in the annotation input.
type FieldError struct {
	Class  string
	Method string
	Kind   string
	Field  string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	where := e.Kind + "." + e.Field
	if e.Value != "" {
		return fmt.Sprintf("%s.%s: %s %q: %v", e.Class, e.Method, where, e.Value, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s: %v", e.Class, e.Method, where, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func missingField(kind, field string) *FieldError {
	return &FieldError{Kind: kind, Field: field, Err: ErrMissingField}
}
