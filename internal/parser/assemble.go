package parser

import "strconv"

// completeRow consumes s.fields as one logical line. The first row under
// HeaderAuto becomes the header; rows whose length differs from the header
// are dropped, reported only under ErrorOnFieldsMismatch.
func (s *Session) completeRow(emit func(Event)) {
	defer func() { s.fields = s.fields[:0] }()
	s.line++

	if s.header == nil && s.opts.Header == HeaderAuto {
		s.header = append([]string(nil), s.fields...)
		return
	}

	if s.header != nil && len(s.fields) != len(s.header) {
		if !s.opts.ErrorOnFieldsMismatch {
			return
		}
		expected := strconv.Itoa(len(s.header))
		if len(s.fields) < len(s.header) {
			s.emitError(emit, CodeFieldsMismatchTooFew, "Too few fields were parsed, expected "+expected+".")
		} else {
			s.emitError(emit, CodeFieldsMismatchTooMany, "Too many fields were parsed, expected "+expected+".")
		}
		return
	}

	emit(Event{Line: s.line, Row: s.buildRow()})
}

// buildRow decodes s.fields into a fresh Row.
func (s *Session) buildRow() *Row {
	row := &Row{Values: make([]any, 0, len(s.fields))}
	if s.header != nil {
		row.Keys = make([]string, 0, len(s.fields))
	}
	for i, field := range s.fields {
		value, keep := s.decodeField(field, i)
		if row.Keys != nil {
			if !keep {
				continue
			}
			row.Keys = append(row.Keys, s.header[i])
		}
		row.Values = append(row.Values, value)
	}
	return row
}

// decodeField applies the empty-field policy and the coercer. keep is false
// when the field should be omitted.
func (s *Session) decodeField(field string, index int) (value any, keep bool) {
	if field == "" {
		switch s.opts.EmptyField {
		case EmptyAsNull:
			return nil, true
		case EmptyOmit:
			return nil, false
		}
	}
	if s.opts.Coerce == nil {
		return field, true
	}
	return coerce(s.opts.Coerce, field, index), true
}

// coerce runs fn, keeping the original field when fn declines or panics.
func coerce(fn Coercer, field string, index int) (value any) {
	defer func() {
		if recover() != nil {
			value = field
		}
	}()
	v, ok := fn(field, index)
	if !ok {
		return field
	}
	return v
}
