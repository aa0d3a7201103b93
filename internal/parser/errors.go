package parser

import (
	"errors"
	"fmt"
)

// Code classifies a parse error.
type Code string

const (
	CodeEmptyLineExists       Code = "EmptyLineExists"
	CodeCommentExists         Code = "CommentExists"
	CodeFieldsMismatchTooFew  Code = "FieldsMismatchTooFew"
	CodeFieldsMismatchTooMany Code = "FieldsMismatchTooMany"
	CodeQuotedFieldMalformed  Code = "QuotedFieldMalformed"
	CodeUnknownDetectChar     Code = "UnknownDetectChar"
	CodeConfigError           Code = "ConfigError"
)

// Common parsing errors
var (
	// ErrEmptyLine indicates a blank line inside the data.
	ErrEmptyLine = errors.New("empty line detected")

	// ErrComment indicates a comment line inside the data.
	ErrComment = errors.New("comment detected")

	// ErrTooFewFields indicates a row shorter than the header.
	ErrTooFewFields = errors.New("too few fields")

	// ErrTooManyFields indicates a row longer than the header.
	ErrTooManyFields = errors.New("too many fields")

	// ErrQuotedFieldMalformed indicates an unterminated quoted field or
	// junk after a closing quote.
	ErrQuotedFieldMalformed = errors.New("quoted field malformed")

	// ErrUnknownDetectChar indicates detection found none of the candidates.
	ErrUnknownDetectChar = errors.New("unable to detect character")

	// ErrInvalidOptions indicates an invalid option combination.
	ErrInvalidOptions = errors.New("invalid options")
)

// sentinel maps a code to its sentinel error.
func sentinel(c Code) error {
	switch c {
	case CodeEmptyLineExists:
		return ErrEmptyLine
	case CodeCommentExists:
		return ErrComment
	case CodeFieldsMismatchTooFew:
		return ErrTooFewFields
	case CodeFieldsMismatchTooMany:
		return ErrTooManyFields
	case CodeQuotedFieldMalformed:
		return ErrQuotedFieldMalformed
	case CodeUnknownDetectChar:
		return ErrUnknownDetectChar
	case CodeConfigError:
		return ErrInvalidOptions
	default:
		return nil
	}
}

// RowError is a recoverable error delivered inline as an Event.
// Parsing continues after it.
type RowError struct {
	Code    Code
	Message string
	// Line is the 1-indexed logical line the error refers to.
	Line int
}

// Error returns a formatted error message with the line number.
func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Code, e.Message)
}

// Unwrap returns the sentinel for the error code.
func (e *RowError) Unwrap() error {
	return sentinel(e.Code)
}

// ParseError is a fatal error returned from ProcessChunk.
type ParseError struct {
	Code Code
	// Line is the 1-indexed logical line where parsing stopped.
	Line int
	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message with position information.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's code.
func (e *ParseError) Is(target error) bool {
	return target != nil && target == sentinel(e.Code)
}

// OptionsError represents an invalid option configuration.
type OptionsError struct {
	Field   string
	Message string
}

// Error returns a formatted error message.
func (e *OptionsError) Error() string {
	return "csv: invalid option " + e.Field + ": " + e.Message
}

// Is matches ErrInvalidOptions.
func (e *OptionsError) Is(target error) bool {
	return target == ErrInvalidOptions
}
