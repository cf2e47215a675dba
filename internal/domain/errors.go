// Package domain holds the invoicing entities and the error taxonomy
// the HTTP layer maps onto status codes.
package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// FieldError is one entry of a field-level validation list; it is what
// clients see inside an error response's detail array.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type ValidationError struct {
	Fields []FieldError
	Msg    string
	Err    error
}

func (e ValidationError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case len(e.Fields) > 0:
		return fmt.Sprintf("%s: %s", e.Fields[0].Field, e.Fields[0].Msg)
	default:
		return "validation error"
	}
}

func (e ValidationError) Unwrap() error { return e.Err }

// Invalid builds a single-field ValidationError.
func Invalid(field, msg string) ValidationError {
	return ValidationError{Fields: []FieldError{{Field: field, Msg: msg}}}
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}
