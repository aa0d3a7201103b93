package csv

import (
	"github.com/willfarrell/csv-rex/internal/parser"
)

// HeaderMode selects how rows are keyed.
type HeaderMode = parser.HeaderMode

const (
	// HeaderNone emits positional rows.
	HeaderNone = parser.HeaderNone
	// HeaderAuto learns the header from the first row.
	HeaderAuto = parser.HeaderAuto
	// HeaderExplicit uses Options.HeaderNames.
	HeaderExplicit = parser.HeaderExplicit
)

// EmptyFieldPolicy selects what an empty field decodes to.
type EmptyFieldPolicy = parser.EmptyFieldPolicy

const (
	// EmptyAsString keeps the empty string (default).
	EmptyAsString = parser.EmptyAsString
	// EmptyAsNull decodes empty fields to nil.
	EmptyAsNull = parser.EmptyAsNull
	// EmptyOmit drops empty fields from keyed rows.
	EmptyOmit = parser.EmptyOmit
)

// Coercer transforms a decoded field given its zero-based column index.
// It returns ok=false to keep the original string. See converters.go for
// the built-in coercers.
type Coercer = parser.Coercer

// DefaultChunkSize is the number of bytes a ChunkSource reads per chunk.
const DefaultChunkSize = 10 * 1024 * 1024

// Options configures parsing.
type Options struct {
	// Delimiter separates fields. Empty means detect it from the input.
	// Default: ","
	Delimiter string

	// Newline separates records, one or two characters. Empty means detect.
	// A "\n" newline on CRLF input leaves the "\r" after a closing quote,
	// which is reported as QuotedFieldMalformed or kept in the field when
	// ErrorOnFieldMalformed is off.
	// Default: "\n"
	Newline string

	// Quote encloses fields containing the delimiter, a newline or a quote.
	// Default: `"`
	Quote string

	// Escape precedes a literal quote inside a quoted field.
	// Default: "" (same as Quote, so quotes are doubled)
	Escape string

	// Header selects positional rows, a header learned from the first row,
	// or the names in HeaderNames.
	// Default: HeaderAuto
	Header      HeaderMode
	HeaderNames []string

	// CommentPrefix marks lines to skip. Empty disables comments.
	CommentPrefix string

	// EmptyField selects what an empty field decodes to.
	// Default: EmptyAsString
	EmptyField EmptyFieldPolicy

	// The ErrorOn* flags control which conditions are reported. Blank lines,
	// comments and rows of the wrong length are always skipped; when the
	// flag is set an error event is emitted in their place. A malformed
	// quoted field is fatal when ErrorOnFieldMalformed is set.
	ErrorOnEmptyLine      bool
	ErrorOnComment        bool
	ErrorOnFieldsMismatch bool
	ErrorOnFieldMalformed bool

	// FastMode lets chunks without any quote character skip quote handling.
	// Default: true
	FastMode bool

	// Coerce, if set, transforms every data field.
	Coerce Coercer

	// DetectLength is the number of leading bytes sampled when Delimiter or
	// Newline is empty.
	// Default: 1024
	DetectLength int

	// Source configures how readers are turned into chunks.
	Source SourceOptions

	// Logger receives diagnostic messages. Nil discards them.
	Logger Logger
}

// SourceOptions configures a ChunkSource.
type SourceOptions struct {
	// ChunkSize is the number of bytes read per chunk.
	// Default: DefaultChunkSize
	ChunkSize int

	// Encoding names the input character set ("utf-8", "windows-1252",
	// "shift_jis", ...). Empty or "auto" detects it: a byte order mark wins,
	// then valid UTF-8, then a statistical guess.
	Encoding string

	// Compression selects the input decompressor.
	// Default: CompressionAuto
	Compression Compression
}

// DefaultOptions returns the default parsing configuration.
func DefaultOptions() Options {
	p := parser.DefaultOptions()
	return Options{
		Delimiter:             p.Delimiter,
		Newline:               p.Newline,
		Quote:                 p.Quote,
		Header:                p.Header,
		EmptyField:            p.EmptyField,
		ErrorOnEmptyLine:      p.ErrorOnEmptyLine,
		ErrorOnComment:        p.ErrorOnComment,
		ErrorOnFieldsMismatch: p.ErrorOnFieldsMismatch,
		ErrorOnFieldMalformed: p.ErrorOnFieldMalformed,
		FastMode:              p.FastMode,
		DetectLength:          p.DetectLength,
		Source: SourceOptions{
			ChunkSize:   DefaultChunkSize,
			Compression: CompressionAuto,
		},
	}
}

// Validate checks if the options are valid.
// Returns an *OptionsError describing the first problem found.
func (o Options) Validate() error {
	if err := parser.Validate(o.parserOptions()); err != nil {
		return err
	}
	if o.Source.ChunkSize < 0 {
		return &OptionsError{Field: "Source.ChunkSize", Message: "must not be negative"}
	}
	if !o.Source.Compression.valid() {
		return &OptionsError{Field: "Source.Compression", Message: "unknown compression"}
	}
	return nil
}

func (o Options) parserOptions() parser.Options {
	return parser.Options{
		Delimiter:             o.Delimiter,
		Newline:               o.Newline,
		Quote:                 o.Quote,
		Escape:                o.Escape,
		Header:                o.Header,
		HeaderNames:           o.HeaderNames,
		CommentPrefix:         o.CommentPrefix,
		EmptyField:            o.EmptyField,
		ErrorOnEmptyLine:      o.ErrorOnEmptyLine,
		ErrorOnComment:        o.ErrorOnComment,
		ErrorOnFieldsMismatch: o.ErrorOnFieldsMismatch,
		ErrorOnFieldMalformed: o.ErrorOnFieldMalformed,
		FastMode:              o.FastMode,
		Coerce:                o.Coerce,
		DetectLength:          o.DetectLength,
	}
}

func (o Options) logger() Logger {
	if o.Logger == nil {
		return nopLogger{}
	}
	return o.Logger
}
