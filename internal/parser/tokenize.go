package parser

import (
	"strings"

	"github.com/willfarrell/csv-rex/internal/fastparser"
)

// parse is the quote-aware chunk tokenizer.
//
// The cursor always sits at the start of a field. A row is assembled in
// s.fields and handed to completeRow at each newline. Whenever a field or
// its line cannot be confirmed inside the chunk, everything from the start
// of the current line is left pending and the rows already completed stand.
func (s *Session) parse(chunk string, emit func(Event), flush bool) error {
	n := len(chunk)
	delimiters := fastparser.NewFinder(chunk, s.delimiter)
	newlines := fastparser.NewFinder(chunk, s.newline)
	quotes := fastparser.NewFinder(chunk, s.quote)

	cursor, ok := s.skipLines(chunk, 0, emit, flush)
	if !ok {
		s.partial = chunk[cursor:]
		return nil
	}
	lineStart := cursor

	for {
		if cursor >= n && len(s.fields) == 0 {
			return nil
		}

		var (
			field string
			after = cursor
		)
		open := s.openingQuote(chunk, cursor)
		if open >= 0 {
			contentStart := open + len(s.quote)
			closing := s.closingQuote(chunk, contentStart, &quotes, flush)
			if closing < 0 {
				if !flush {
					s.partial = chunk[lineStart:]
					return nil
				}
				return s.unclosedQuote(chunk[lineStart:], emit)
			}
			field = s.unescape(chunk[contentStart:closing])
			after = closing + len(s.quote)
		}

		nl := newlines.Next(after)
		if nl < 0 {
			if !flush {
				s.partial = chunk[lineStart:]
				return nil
			}
			nl = n
		}
		end, atNewline := nl, true
		if d := delimiters.Next(after); d >= 0 && d < nl {
			end, atNewline = d, false
		}

		if open >= 0 {
			if gap := chunk[after:end]; strings.Trim(gap, " \t") != "" {
				if s.opts.ErrorOnFieldMalformed {
					return &ParseError{Code: CodeQuotedFieldMalformed, Line: s.line + 1,
						Err: ErrQuotedFieldMalformed}
				}
				field += gap
			}
		} else {
			field = chunk[cursor:end]
		}
		s.fields = append(s.fields, field)

		if !atNewline {
			cursor = end + len(s.delimiter)
			continue
		}

		cursor = min(nl+len(s.newline), n)
		s.completeRow(emit)
		if cursor, ok = s.skipLines(chunk, cursor, emit, flush); !ok {
			s.partial = chunk[cursor:]
			return nil
		}
		lineStart = cursor
	}
}

// openingQuote returns the offset of the quote opening the field at pos, or
// -1 for an unquoted field. Blanks before the quote are skipped.
func (s *Session) openingQuote(chunk string, pos int) int {
	for pos < len(chunk) {
		c := chunk[pos]
		if (c != ' ' && c != '\t') || strings.HasPrefix(chunk[pos:], s.delimiter) {
			break
		}
		pos++
	}
	if strings.HasPrefix(chunk[pos:], s.quote) {
		return pos
	}
	return -1
}

// closingQuote returns the offset of the quote closing a field whose content
// starts at from, or -1 when the chunk does not settle it. A doubled quote,
// or a quote preceded by a distinct escape character, is literal. When the
// escape is the quote itself, a quote at the very end of a non-final chunk
// is unresolved because the next chunk may double it.
func (s *Session) closingQuote(chunk string, from int, quotes *fastparser.Finder, flush bool) int {
	q := len(s.quote)
	for {
		i := quotes.Next(from)
		if i < 0 {
			return -1
		}
		if s.escape == s.quote {
			if i+q == len(chunk) && !flush {
				return -1
			}
			if strings.HasPrefix(chunk[i+q:], s.quote) {
				from = i + 2*q
				continue
			}
			return i
		}
		if i-len(s.escape) >= from && chunk[i-len(s.escape):i] == s.escape {
			from = i + q
			continue
		}
		return i
	}
}

// unescape decodes the content of a quoted field.
func (s *Session) unescape(content string) string {
	if !strings.Contains(content, s.escape+s.quote) {
		return content
	}
	return strings.ReplaceAll(content, s.escape+s.quote, s.quote)
}

// unclosedQuote handles a quoted field still open at the end of input.
// line is the pending text from the start of the offending line.
func (s *Session) unclosedQuote(line string, emit func(Event)) error {
	if s.opts.ErrorOnFieldMalformed {
		s.partial = line
		s.fields = s.fields[:0]
		return &ParseError{Code: CodeQuotedFieldMalformed, Line: s.line + 1, Err: ErrQuotedFieldMalformed}
	}
	if len(s.fields) == 0 {
		s.line++
		return nil
	}
	s.completeRow(emit)
	return nil
}
