package parser

import "strings"

const (
	msgEmptyLine = "Empty line detected."
	msgComment   = "Comment detected."
)

// skipLines consumes blank and comment lines starting at pos, which must be
// the start of a line. It returns the start of the next data line. ok is
// false when a comment line is not terminated and more input may follow; pos
// is then the start of that comment.
func (s *Session) skipLines(chunk string, pos int, emit func(Event), flush bool) (next int, ok bool) {
	for pos < len(chunk) {
		rest := chunk[pos:]
		switch {
		case strings.HasPrefix(rest, s.newline):
			pos += len(s.newline)
			s.line++
			if s.opts.ErrorOnEmptyLine {
				s.emitError(emit, CodeEmptyLineExists, msgEmptyLine)
			}
		case s.comment != "" && strings.HasPrefix(rest, s.comment):
			i := strings.Index(rest, s.newline)
			if i < 0 {
				if !flush {
					return pos, false
				}
				pos = len(chunk)
			} else {
				pos += i + len(s.newline)
			}
			s.line++
			if s.opts.ErrorOnComment {
				s.emitError(emit, CodeCommentExists, msgComment)
			}
		default:
			return pos, true
		}
	}
	return pos, true
}

func (s *Session) emitError(emit func(Event), code Code, message string) {
	emit(Event{Line: s.line, Err: &RowError{Code: code, Message: message, Line: s.line}})
}
