package csv

import "github.com/willfarrell/csv-rex/internal/parser"

// Code classifies a parse error.
type Code = parser.Code

// Error codes carried by RowError and ParseError.
const (
	EmptyLineExists       = parser.CodeEmptyLineExists
	CommentExists         = parser.CodeCommentExists
	FieldsMismatchTooFew  = parser.CodeFieldsMismatchTooFew
	FieldsMismatchTooMany = parser.CodeFieldsMismatchTooMany
	QuotedFieldMalformed  = parser.CodeQuotedFieldMalformed
	UnknownDetectChar     = parser.CodeUnknownDetectChar
	ConfigError           = parser.CodeConfigError
)

// RowError is a recoverable condition delivered inline as an Event. It
// unwraps to the sentinel for its code:
//
//	if errors.Is(ev.Err, csv.ErrTooFewFields) { ... }
type RowError = parser.RowError

// ParseError is a fatal error returned by Session.ProcessChunk, Parse and
// the Scanner. It represents a parsing error with line information.
type ParseError = parser.ParseError

// OptionsError represents an invalid option configuration.
type OptionsError = parser.OptionsError

// Common parsing errors
var (
	// ErrEmptyLine indicates a blank line inside the data.
	ErrEmptyLine = parser.ErrEmptyLine

	// ErrComment indicates a comment line.
	ErrComment = parser.ErrComment

	// ErrTooFewFields indicates a row shorter than the header.
	ErrTooFewFields = parser.ErrTooFewFields

	// ErrTooManyFields indicates a row longer than the header.
	ErrTooManyFields = parser.ErrTooManyFields

	// ErrQuotedFieldMalformed indicates a quoted field that is never closed
	// or is followed by stray characters.
	ErrQuotedFieldMalformed = parser.ErrQuotedFieldMalformed

	// ErrUnknownDetectChar indicates the detection sample held no candidate
	// newline or delimiter.
	ErrUnknownDetectChar = parser.ErrUnknownDetectChar

	// ErrInvalidOptions indicates an invalid option combination.
	ErrInvalidOptions = parser.ErrInvalidOptions
)
