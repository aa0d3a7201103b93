package csv

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func TestScanner_ChunkSizes(t *testing.T) {
	input := sampleCSV(50) + "\n# trailing comment\n1,2"
	opts := DefaultOptions()
	opts.CommentPrefix = "#"
	want, err := Parse(input, opts)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for _, size := range []int{4, 5, 13, 64, 1000, 0} {
		opts.Source.ChunkSize = size
		sc := NewScanner(strings.NewReader(input), opts)
		var got []Event
		for sc.Scan() {
			got = append(got, sc.Event())
		}
		if err := sc.Err(); err != nil {
			t.Fatalf("size %d: Err() = %v", size, err)
		}
		if !slices.Equal(describe(got), describe(want)) {
			t.Errorf("size %d: events = %q\nwant %q", size, describe(got), describe(want))
		}
	}
}

func TestScanner_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte("name;age\r\nAlice;30\r\nBob;25\r\n"))
	zw.Close()

	opts := DefaultOptions()
	opts.Delimiter = ""
	opts.Newline = ""
	opts.Coerce = CoerceNumber
	opts.Source.ChunkSize = 8

	sc := NewScanner(&buf, opts)
	var got []Event
	for ev := range sc.Events() {
		got = append(got, ev)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	assertEvents(t, got, []string{"2:{name=Alice,age=30}", "3:{name=Bob,age=25}"})
	if v, _ := got[0].Row.Get("age"); v != int64(30) {
		t.Errorf("age = %#v, want int64(30)", v)
	}
	if !slices.Equal(sc.Header(), []string{"name", "age"}) {
		t.Errorf("Header() = %q", sc.Header())
	}
	if sc.BytesRead() == 0 {
		t.Error("BytesRead() = 0")
	}
}

func TestScanner_EventsBreak(t *testing.T) {
	sc := NewScanner(strings.NewReader(sampleCSV(10)), DefaultOptions())
	n := 0
	for range sc.Events() {
		n++
		if n == 3 {
			break
		}
	}
	if !sc.Scan() {
		t.Fatal("Scan() after break = false, want remaining events")
	}
	if sc.Event().Line != 5 {
		t.Errorf("Line = %d, want 5", sc.Event().Line)
	}
}

func TestScanner_FatalError(t *testing.T) {
	var logs bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = NewStandardLoggerTo(&logs, false)
	opts.Source.ChunkSize = 4

	sc := NewScanner(strings.NewReader("a,b\n1,2\n\"3,4\n"), opts)
	var got []Event
	for sc.Scan() {
		got = append(got, sc.Event())
	}
	assertEvents(t, got, []string{"2:{a=1,b=2}"})

	var pe *ParseError
	if !errors.As(sc.Err(), &pe) || pe.Code != QuotedFieldMalformed {
		t.Fatalf("Err() = %v, want QuotedFieldMalformed", sc.Err())
	}
	if sc.Scan() {
		t.Error("Scan() after error = true")
	}
	if !strings.Contains(logs.String(), "ERROR: parse error on line 3") {
		t.Errorf("log = %q, want the parse error", logs.String())
	}
}

func TestScanner_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Delimiter = `"`
	sc := NewScanner(strings.NewReader("a\n"), opts)
	if sc.Scan() {
		t.Fatal("Scan() = true, want false")
	}
	if !errors.Is(sc.Err(), ErrInvalidOptions) {
		t.Errorf("Err() = %v, want ErrInvalidOptions", sc.Err())
	}
	if sc.Header() != nil || sc.BytesRead() != 0 {
		t.Error("scanner state set after failed start")
	}
}

func TestScanner_Empty(t *testing.T) {
	sc := NewScanner(strings.NewReader(""), DefaultOptions())
	if sc.Scan() {
		t.Error("Scan() = true on empty input")
	}
	if sc.Err() != nil {
		t.Errorf("Err() = %v", sc.Err())
	}
}

func TestSession_Logging(t *testing.T) {
	var logs bytes.Buffer
	opts := DefaultOptions()
	opts.Delimiter = ""
	opts.Logger = NewStandardLoggerTo(&logs, true)

	s, err := NewSession(opts)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	var events []Event
	emit := func(ev Event) { events = append(events, ev) }
	for _, chunk := range []string{"a|b\n", "1|2\n"} {
		if err := s.ProcessChunk(s.PendingPartialLine()+chunk, emit, false); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.ProcessChunk(s.PendingPartialLine(), emit, true); err != nil {
		t.Fatal(err)
	}
	assertEvents(t, events, []string{"2:{a=1,b=2}"})
	if n := strings.Count(logs.String(), `DEBUG: detected newline "\n" and delimiter "|"`); n != 1 {
		t.Errorf("detection logged %d times, want 1:\n%s", n, logs.String())
	}
	if s.Delimiter() != "|" || s.Newline() != "\n" || s.Line() != 2 {
		t.Errorf("Delimiter, Newline, Line = %q, %q, %d", s.Delimiter(), s.Newline(), s.Line())
	}
}

func TestSession_PendingPartialLine(t *testing.T) {
	s, err := NewSession(DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var events []Event
	emit := func(ev Event) { events = append(events, ev) }

	if err := s.ProcessChunk("a,b,c\n\"1\",\"2\",\"", emit, false); err != nil {
		t.Fatal(err)
	}
	if got := s.PendingPartialLine(); got != `"1","2","` {
		t.Errorf("PendingPartialLine() = %q", got)
	}
	if s.FastModeApplicable("1,2,3\n") != true || s.FastModeApplicable(`"1",2,3`) != false {
		t.Error("FastModeApplicable() mismatch")
	}
	if err := s.ProcessChunk(s.PendingPartialLine()+"3\"\n", emit, true); err != nil {
		t.Fatal(err)
	}
	assertEvents(t, events, []string{"2:{a=1,b=2,c=3}"})
	if s.PendingPartialLine() != "" {
		t.Errorf("PendingPartialLine() = %q, want empty", s.PendingPartialLine())
	}
}

func TestStandardLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLoggerTo(&buf, false)
	l.Info("hello %d", 1)
	l.Debug("hidden")
	l.Error("bad %s", "thing")
	out := buf.String()
	if !strings.Contains(out, "[csv-rex] ") || !strings.Contains(out, "INFO: hello 1") || !strings.Contains(out, "ERROR: bad thing") {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug written without verbose: %q", out)
	}
}
