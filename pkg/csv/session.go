package csv

import (
	"github.com/willfarrell/csv-rex/internal/parser"
)

// Row is one decoded record: positional when Keys is nil, otherwise
// Keys[i] names Values[i].
type Row = parser.Row

// Event is a decoded row or a recoverable error, tagged with the 1-based
// logical line it came from.
type Event = parser.Event

// Session parses one stream chunk by chunk. It owns the learned header, the
// line counter and the unterminated trailing line.
//
// A Session is not safe for concurrent use; run one session per input.
//
// Example:
//
//	s, err := csv.NewSession(csv.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	emit := func(ev csv.Event) { fmt.Println(ev.Line, ev.Row.Map()) }
//	for i, chunk := range chunks {
//	    last := i == len(chunks)-1
//	    if err := s.ProcessChunk(s.PendingPartialLine()+chunk, emit, last); err != nil {
//	        return err
//	    }
//	}
type Session struct {
	s        *parser.Session
	log      Logger
	detected bool
}

// NewSession validates opts and creates a session.
// Returns an *OptionsError if the options are invalid.
func NewSession(opts Options) (*Session, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	s, err := parser.NewSession(opts.parserOptions())
	if err != nil {
		return nil, err
	}
	return &Session{
		s:        s,
		log:      opts.logger(),
		detected: opts.Newline != "" && opts.Delimiter != "",
	}, nil
}

// ProcessChunk parses chunk, calling emit synchronously for every row and
// soft error in input order. chunk must begin with PendingPartialLine. Set
// flush on the final chunk so a last line without a newline is completed.
//
// A returned error is a *ParseError. After a QuotedFieldMalformed error the
// open line stays pending and the caller may feed more input instead of
// flushing; other parse errors are permanent for the session.
func (s *Session) ProcessChunk(chunk string, emit func(Event), flush bool) error {
	err := s.s.ProcessChunk(chunk, emit, flush)
	if !s.detected && s.s.Newline() != "" && s.s.Delimiter() != "" {
		s.detected = true
		s.log.Debug("detected newline %q and delimiter %q", s.s.Newline(), s.s.Delimiter())
	}
	return err
}

// PendingPartialLine returns the text to prepend to the next chunk.
func (s *Session) PendingPartialLine() string {
	return s.s.PendingPartialLine()
}

// FastModeApplicable reports whether chunk would take the quote-free path.
func (s *Session) FastModeApplicable(chunk string) bool {
	return s.s.FastModeApplicable(chunk)
}

// Header returns the header in use, or nil before one is known.
func (s *Session) Header() []string {
	return s.s.Header()
}

// Line returns the number of logical lines consumed so far.
func (s *Session) Line() int {
	return s.s.Line()
}

// Newline returns the newline in use, or "" before detection.
func (s *Session) Newline() string {
	return s.s.Newline()
}

// Delimiter returns the delimiter in use, or "" before detection.
func (s *Session) Delimiter() string {
	return s.s.Delimiter()
}
