// Package csv provides a streaming, chunk-oriented parser for CSV and other
// delimiter-separated text.
//
// Input is consumed in chunks that may end anywhere, even inside a quoted
// field. A Session carries the unterminated tail of each chunk over to the
// next one and turns complete lines into events: decoded rows, or soft
// errors (blank line, comment, wrong field count) delivered in line order
// alongside them. Only configuration problems, failed auto-detection and a
// quoted field left open at the end of input are returned as errors.
//
// # Thread Safety
//
// A Session or Scanner must not be shared between goroutines. Independent
// sessions share no state and may run concurrently.
//
//	go func() { csv.Parse(input1, opts) }()
//	go func() { csv.Parse(input2, opts) }()
//
// # Parsing APIs
//
//   - Parse(string, Options) - parses a complete document held in memory
//   - ParseReader(io.Reader, Options) - decompresses, decodes and parses a reader
//   - NewScanner(io.Reader, Options) - pulls events one at a time
//   - NewSession(Options) - the chunk-level engine for callers that do their own I/O
//
// # Example usage with Parse:
//
//	events, err := csv.Parse("name,age\nAlice,30\nBob,25\n", csv.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//	for _, row := range csv.DataRows(events) {
//	    fmt.Println(row.Map()) // map[age:30 name:Alice] ...
//	}
//
// # Example usage with ParseReader:
//
//	file, err := os.Open("data.tsv.zst")
//	if err != nil {
//	    // handle error
//	}
//	defer file.Close()
//
//	opts := csv.DefaultOptions()
//	opts.Delimiter = "" // detect
//	opts.Coerce = csv.CoerceAny
//	events, err := csv.ParseReader(file, opts)
//
// # Writing and structs
//
// Format and Writer turn rows back into delimited text that parses to the
// same rows. Marshal and Unmarshal map slices of structs to and from text
// using "csv" field tags, and a Schema validates parsed rows or supplies
// per-column coercers.
//
// # Dialects
//
// The delimiter, newline, quote and escape characters are configurable.
// Leaving Delimiter or Newline empty detects them from the first
// DetectLength bytes by frequency. Rows are keyed by a header learned from
// the first row, by explicit names, or left positional.
package csv

import (
	"io"
)

// Parse parses a complete document.
//
// Rows and soft errors are returned in input order. Events emitted before a
// fatal error are returned along with it.
//
// Example:
//
//	events, err := csv.Parse("a,b,c\n1,2,3\n", csv.DefaultOptions())
//	// events[0].Line == 2
//	// events[0].Row.Map() == map[string]any{"a": "1", "b": "2", "c": "3"}
func Parse(input string, opts Options) ([]Event, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	var events []Event
	err = s.ProcessChunk(input, func(ev Event) { events = append(events, ev) }, true)
	return events, err
}

// ParseReader parses everything readable from r.
//
// The input is read in opts.Source.ChunkSize pieces, decompressed and
// decoded to UTF-8 first (see ChunkSource). Use a Scanner to process events
// without holding all of them in memory.
//
// Example:
//
//	reader := strings.NewReader("name,age\nAlice,30")
//	events, err := csv.ParseReader(reader, csv.DefaultOptions())
func ParseReader(r io.Reader, opts Options) ([]Event, error) {
	sc := NewScanner(r, opts)
	var events []Event
	for sc.Scan() {
		events = append(events, sc.Event())
	}
	return events, sc.Err()
}

// DataRows returns the rows of events, skipping error events.
func DataRows(events []Event) []*Row {
	rows := make([]*Row, 0, len(events))
	for _, ev := range events {
		if ev.Row != nil {
			rows = append(rows, ev.Row)
		}
	}
	return rows
}

// Errors returns the soft errors of events.
func Errors(events []Event) []*RowError {
	var errs []*RowError
	for _, ev := range events {
		if ev.Err != nil {
			errs = append(errs, ev.Err)
		}
	}
	return errs
}
