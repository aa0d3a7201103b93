package parser

import (
	"fmt"
	"strings"
	"testing"
)

// feed runs chunks through a new session, flushing on the last one.
func feed(t *testing.T, opts Options, chunks ...string) ([]Event, *Session, error) {
	t.Helper()
	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	var events []Event
	emit := func(e Event) { events = append(events, e) }
	for i, chunk := range chunks {
		if err := s.ProcessChunk(s.PendingPartialLine()+chunk, emit, i == len(chunks)-1); err != nil {
			return events, s, err
		}
	}
	return events, s, nil
}

// describe renders events as "line:{k=v,...}", "line:[v ...]" or "line:!Code".
func describe(events []Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		switch {
		case e.IsError():
			out = append(out, fmt.Sprintf("%d:!%s", e.Line, e.Err.Code))
		case e.Row.Positional():
			out = append(out, fmt.Sprintf("%d:%v", e.Line, e.Row.Values))
		default:
			parts := make([]string, len(e.Row.Keys))
			for i, k := range e.Row.Keys {
				parts[i] = fmt.Sprintf("%s=%v", k, e.Row.Values[i])
			}
			out = append(out, fmt.Sprintf("%d:{%s}", e.Line, strings.Join(parts, ",")))
		}
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
