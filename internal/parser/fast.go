package parser

import "github.com/willfarrell/csv-rex/internal/fastparser"

// fastParse handles chunks that contain no quote character: each line is
// split on the delimiter with no escaping logic.
func (s *Session) fastParse(chunk string, emit func(Event), flush bool) error {
	pos, ok := s.skipLines(chunk, 0, emit, flush)
	for ok && pos < len(chunk) {
		line, next, terminated := fastparser.NextLine(chunk, pos, s.newline)
		if !terminated && !flush {
			break
		}
		s.fields = fastparser.SplitFields(s.fields[:0], line, s.delimiter)
		s.completeRow(emit)
		pos, ok = s.skipLines(chunk, next, emit, flush)
	}
	s.partial = chunk[pos:]
	return nil
}
