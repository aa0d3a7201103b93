package parser

import (
	"fmt"
	"strings"

	"github.com/willfarrell/csv-rex/internal/tokenizer"
)

// Session parses one logical stream, one chunk at a time.
//
// A Session is not safe for concurrent use. Independent sessions may run
// in parallel.
type Session struct {
	opts Options

	newline   string
	delimiter string
	quote     string
	escape    string
	comment   string

	header  []string
	line    int
	partial string
	fields  []string

	// err is set by fatal conditions that more data cannot fix.
	err error
}

// NewSession validates opts and creates a session.
// Returns an *OptionsError if the options are invalid.
func NewSession(opts Options) (*Session, error) {
	if err := Validate(opts); err != nil {
		return nil, err
	}
	s := &Session{
		opts:      opts,
		newline:   opts.Newline,
		delimiter: opts.Delimiter,
		quote:     opts.Quote,
		escape:    opts.escape(),
		comment:   opts.CommentPrefix,
	}
	if opts.Header == HeaderExplicit {
		s.header = append([]string(nil), opts.HeaderNames...)
	}
	return s, nil
}

// ProcessChunk scans chunk and calls emit for every row and soft error, in
// input order. The chunk must start with PendingPartialLine from the previous
// call. On the final call flush must be true so that a trailing line without
// a newline is treated as complete.
//
// The returned error is a *ParseError. An unterminated quoted field at flush
// leaves the offending line pending, so a caller with more input may retry
// without flushing. Detection failures are permanent.
func (s *Session) ProcessChunk(chunk string, emit func(Event), flush bool) error {
	if s.err != nil {
		return s.err
	}
	s.partial = ""
	s.fields = s.fields[:0]
	if chunk == "" {
		return nil
	}

	if s.newline == "" || s.delimiter == "" {
		if len(chunk) < s.opts.detectLength() && !flush {
			s.partial = chunk
			return nil
		}
		if err := s.detect(chunk); err != nil {
			s.err = err
			return err
		}
	}

	if s.FastModeApplicable(chunk) {
		return s.fastParse(chunk, emit, flush)
	}
	return s.parse(chunk, emit, flush)
}

// PendingPartialLine returns the text the caller must prepend to the next
// chunk.
func (s *Session) PendingPartialLine() string {
	return s.partial
}

// FastModeApplicable reports whether chunk can take the quote-free path.
func (s *Session) FastModeApplicable(chunk string) bool {
	return s.opts.FastMode && !strings.Contains(chunk, s.quote)
}

// Header returns the header in use, or nil when none has been set or
// learned yet.
func (s *Session) Header() []string {
	return s.header
}

// Line returns the number of logical lines consumed so far.
func (s *Session) Line() int {
	return s.line
}

// Newline returns the newline sequence, or "" before detection has run.
func (s *Session) Newline() string {
	return s.newline
}

// Delimiter returns the delimiter, or "" before detection has run.
func (s *Session) Delimiter() string {
	return s.delimiter
}

// detect fills in the newline and delimiter from the leading sample.
func (s *Session) detect(chunk string) error {
	sample := detectSample(chunk, s.opts.detectLength())

	if s.newline == "" {
		nl, ok := DetectChar(sample, tokenizer.NewlineCandidates)
		if !ok {
			return &ParseError{Code: CodeUnknownDetectChar, Line: s.line,
				Err: fmt.Errorf("%w: no newline in the first %d bytes", ErrUnknownDetectChar, len(sample))}
		}
		s.newline = nl
	}
	if s.delimiter == "" {
		d, ok := DetectChar(sample, tokenizer.DelimiterCandidates)
		if !ok {
			return &ParseError{Code: CodeUnknownDetectChar, Line: s.line,
				Err: fmt.Errorf("%w: no delimiter in the first %d bytes", ErrUnknownDetectChar, len(sample))}
		}
		s.delimiter = d
	}

	err := validateDialect(s.delimiter, s.newline, s.quote, s.escape)
	if err == nil && s.comment != "" &&
		(strings.HasPrefix(s.comment, s.delimiter) || strings.HasPrefix(s.comment, s.newline[:1])) {
		err = &OptionsError{Field: "CommentPrefix", Message: "conflicts with the detected dialect"}
	}
	if err != nil {
		return &ParseError{Code: CodeConfigError, Line: s.line, Err: err}
	}
	return nil
}
