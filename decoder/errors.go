package decoder

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedInput   = errors.New("truncated input")
	ErrMalformedInteger = errors.New("malformed integer")
	ErrInvalidCharCode  = errors.New("invalid character code")

	errNoToken = errors.New("no token left")
)

// DecodeError reports which field was being read and at which token the
// layout stopped matching.
type DecodeError struct {
	Field    string
	Position int
	Cause    error
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("decode %s at token %d: %v", e.Field, e.Position, e.Cause)
	}
	return fmt.Sprintf("decode %s at token %d: %v: %v", e.Field, e.Position, e.Cause, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Cause}
	}
	return []error{e.Cause, e.Err}
}

func newDecodeError(field string, position int, cause, err error) *DecodeError {
	return &DecodeError{Field: field, Position: position, Cause: cause, Err: err}
}
