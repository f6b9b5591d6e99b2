package client

import (
	"errors"
	"fmt"
)

var (
	// ErrNotJSON means a field was requested from a response whose body is not valid JSON.
	ErrNotJSON = errors.New("response body is not valid JSON")

	// ErrNotObject means a field was requested from a JSON body that is not an object.
	ErrNotObject = errors.New("response body is not a JSON object")
)

// TransportError means that no HTTP response was obtained at all: the connection was refused,
// the host could not be resolved, the request timed out, or the connection broke while the
// body was being read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError returns true if err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// FieldReason says why a field could not be read.
type FieldReason int

const (
	// FieldAbsent means the object has no such key.
	FieldAbsent FieldReason = iota
	// FieldWrongType means the key is present but its value has an unexpected JSON type.
	FieldWrongType
)

// FieldError describes a field of a JSON response body that was missing or had the wrong type.
type FieldError struct {
	Key      string
	Reason   FieldReason
	Expected string
	Actual   string
}

func (e *FieldError) Error() string {
	if e.Reason == FieldWrongType {
		return fmt.Sprintf("field %q is present but is a %s, not a %s", e.Key, e.Actual, e.Expected)
	}
	return fmt.Sprintf("field %q is absent", e.Key)
}
