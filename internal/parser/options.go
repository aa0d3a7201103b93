// Package parser implements the streaming chunk tokenizer for
// delimiter-separated text.
//
// A Session owns the state that must survive between chunks: the learned
// header, the running line counter and the unterminated trailing line. Each
// call to ProcessChunk scans one chunk (prefixed by the caller with the
// pending partial line), emits row and soft-error events through a callback,
// and returns an error only for fatal conditions.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// HeaderMode selects how rows are keyed.
type HeaderMode int

const (
	// HeaderNone emits positional rows.
	HeaderNone HeaderMode = iota
	// HeaderAuto learns the header from the first row of the stream.
	HeaderAuto
	// HeaderExplicit uses Options.HeaderNames.
	HeaderExplicit
)

// String returns the string representation of HeaderMode.
func (m HeaderMode) String() string {
	switch m {
	case HeaderNone:
		return "none"
	case HeaderAuto:
		return "auto"
	case HeaderExplicit:
		return "explicit"
	default:
		return fmt.Sprintf("HeaderMode(%d)", m)
	}
}

// EmptyFieldPolicy selects what an empty field decodes to.
type EmptyFieldPolicy int

const (
	// EmptyAsString keeps the empty string.
	EmptyAsString EmptyFieldPolicy = iota
	// EmptyAsNull substitutes nil.
	EmptyAsNull
	// EmptyOmit drops the key from keyed rows (nil at that position for positional rows).
	EmptyOmit
)

// String returns the string representation of EmptyFieldPolicy.
func (p EmptyFieldPolicy) String() string {
	switch p {
	case EmptyAsString:
		return "string"
	case EmptyAsNull:
		return "null"
	case EmptyOmit:
		return "omit"
	default:
		return fmt.Sprintf("EmptyFieldPolicy(%d)", p)
	}
}

// Coercer transforms a decoded field. It receives the field and its
// zero-based column index and reports ok=false to leave the field unchanged.
type Coercer func(field string, index int) (value any, ok bool)

// DefaultDetectLength is the sample size used for newline and delimiter
// detection when Options.DetectLength is zero.
const DefaultDetectLength = 1024

// Options configures a Session.
type Options struct {
	// Delimiter separates fields. Empty means detect from the first chunk.
	Delimiter string
	// Newline separates records, one or two characters. Empty means detect.
	// A "\n" newline on CRLF input leaves the "\r" after a closing quote,
	// which is reported as QuotedFieldMalformed or kept in the field when
	// ErrorOnFieldMalformed is off.
	Newline string
	// Quote encloses fields that contain delimiters, newlines or quotes.
	Quote string
	// Escape precedes a literal quote inside a quoted field. Empty means Quote.
	Escape string

	Header      HeaderMode
	HeaderNames []string

	// CommentPrefix marks lines to skip. Empty disables comments.
	CommentPrefix string
	EmptyField    EmptyFieldPolicy

	ErrorOnEmptyLine      bool
	ErrorOnComment        bool
	ErrorOnFieldsMismatch bool
	ErrorOnFieldMalformed bool

	// FastMode lets chunks without any quote character skip quote handling.
	FastMode bool

	// Coerce, if set, is applied to every data field.
	Coerce Coercer

	// DetectLength is the number of leading bytes sampled for detection.
	DetectLength int
}

// DefaultOptions returns the default session configuration.
func DefaultOptions() Options {
	return Options{
		Delimiter:             ",",
		Newline:               "\n",
		Quote:                 `"`,
		Header:                HeaderAuto,
		EmptyField:            EmptyAsString,
		ErrorOnEmptyLine:      true,
		ErrorOnComment:        true,
		ErrorOnFieldsMismatch: true,
		ErrorOnFieldMalformed: true,
		FastMode:              true,
		DetectLength:          DefaultDetectLength,
	}
}

// escape returns the effective escape sequence.
func (o Options) escape() string {
	if o.Escape == "" {
		return o.Quote
	}
	return o.Escape
}

// detectLength returns the effective detection sample size.
func (o Options) detectLength() int {
	if o.DetectLength == 0 {
		return DefaultDetectLength
	}
	return o.DetectLength
}

// Validate checks the options for invalid combinations.
// Returns an *OptionsError describing the first problem found.
func Validate(o Options) error {
	if o.Delimiter != "" && utf8.RuneCountInString(o.Delimiter) != 1 {
		return &OptionsError{Field: "Delimiter", Message: "must be exactly one character"}
	}
	if n := utf8.RuneCountInString(o.Newline); o.Newline != "" && n > 2 {
		return &OptionsError{Field: "Newline", Message: "must be one or two characters"}
	}
	if utf8.RuneCountInString(o.Quote) != 1 {
		return &OptionsError{Field: "Quote", Message: "must be exactly one character"}
	}
	if o.Escape != "" && utf8.RuneCountInString(o.Escape) != 1 {
		return &OptionsError{Field: "Escape", Message: "must be exactly one character"}
	}
	if err := validateDialect(o.Delimiter, o.Newline, o.Quote, o.escape()); err != nil {
		return err
	}
	if o.CommentPrefix != "" {
		if o.Delimiter != "" && strings.HasPrefix(o.CommentPrefix, o.Delimiter) {
			return &OptionsError{Field: "CommentPrefix", Message: "must not start with the delimiter"}
		}
		if o.Newline != "" && strings.HasPrefix(o.CommentPrefix, o.Newline[:1]) {
			return &OptionsError{Field: "CommentPrefix", Message: "must not start with the newline"}
		}
	}
	switch o.Header {
	case HeaderNone, HeaderAuto:
	case HeaderExplicit:
		if len(o.HeaderNames) == 0 {
			return &OptionsError{Field: "HeaderNames", Message: "explicit header requires at least one name"}
		}
		seen := make(map[string]bool, len(o.HeaderNames))
		for _, name := range o.HeaderNames {
			if name == "" {
				return &OptionsError{Field: "HeaderNames", Message: "names must not be empty"}
			}
			if seen[name] {
				return &OptionsError{Field: "HeaderNames", Message: "duplicate name " + strconv.Quote(name)}
			}
			seen[name] = true
		}
	default:
		return &OptionsError{Field: "Header", Message: "unknown header mode"}
	}
	switch o.EmptyField {
	case EmptyAsString, EmptyAsNull, EmptyOmit:
	default:
		return &OptionsError{Field: "EmptyField", Message: "unknown empty field policy"}
	}
	if o.DetectLength < 0 {
		return &OptionsError{Field: "DetectLength", Message: "must not be negative"}
	}
	return nil
}

// validateDialect checks the structural characters against each other.
// Empty delimiter or newline values are skipped; they are checked again
// once detection has filled them in.
func validateDialect(delimiter, newline, quoteChar, escape string) error {
	if delimiter != "" {
		switch {
		case delimiter == quoteChar:
			return &OptionsError{Field: "Delimiter", Message: "must differ from the quote character"}
		case delimiter == escape:
			return &OptionsError{Field: "Delimiter", Message: "must differ from the escape character"}
		case newline != "" && strings.Contains(newline, delimiter):
			return &OptionsError{Field: "Delimiter", Message: "must not be part of the newline"}
		}
	}
	if newline != "" && strings.Contains(newline, quoteChar) {
		return &OptionsError{Field: "Newline", Message: "must not contain the quote character"}
	}
	return nil
}
