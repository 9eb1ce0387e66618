package sacr

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrUnexpectedClose indicates a `}` with no open span to close.
	ErrUnexpectedClose = errors.New("sacr: close marker without matching open")

	// ErrUnclosedSpan indicates the input ended while spans were still open.
	ErrUnclosedSpan = errors.New("sacr: unclosed span at end of input")

	// ErrMalformedOpen indicates an open marker that is not of the form
	// {Label:property="Class" text.
	ErrMalformedOpen = errors.New("sacr: malformed open marker")

	// ErrMalformedClass indicates the class token does not start with a quoted class.
	ErrMalformedClass = errors.New("sacr: malformed class value")
)

// ParseError reports where in a document parsing failed.
type ParseError struct {
	// Token is the index of the offending raw token.
	Token int
	// Offset is the plain-text character offset reached before the failure.
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v (token %d, offset %d)", e.Err, e.Token, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
