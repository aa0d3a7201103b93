package csv

import (
	"fmt"
	"slices"
	"strings"
	"testing"
)

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

func assertEvents(t *testing.T, events []Event, want []string) {
	t.Helper()
	if got := describe(events); !slices.Equal(got, want) {
		t.Errorf("events = %q, want %q", got, want)
	}
}

// sampleCSV builds a document of n rows with a quoted column every third row.
func sampleCSV(n int) string {
	var sb strings.Builder
	sb.WriteString("id,name,email,note\n")
	for i := 0; i < n; i++ {
		if i%3 == 0 {
			fmt.Fprintf(&sb, "%d,user %d,user%d@example.com,\"says \"\"hi\"\", twice\"\n", i, i, i)
		} else {
			fmt.Fprintf(&sb, "%d,user %d,user%d@example.com,plain\n", i, i, i)
		}
	}
	return sb.String()
}
