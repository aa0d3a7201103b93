package csv

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shapestone/shape-core/pkg/ast"
)

// QuoteMode overrides quoting for one column.
type QuoteMode int

const (
	// QuoteAuto quotes only fields that need it.
	QuoteAuto QuoteMode = iota
	// QuoteAlways quotes every non-empty field.
	QuoteAlways
	// QuoteNever writes fields verbatim. The output may not parse back.
	QuoteNever
)

// FormatOptions configures writing rows back to delimited text.
type FormatOptions struct {
	Delimiter string
	Newline   string
	Quote     string
	// Escape precedes quotes inside quoted fields. Empty means Quote.
	Escape string

	// Header fixes the column order of keyed rows. Nil takes the keys of the
	// first keyed row.
	Header []string
	// WriteHeader writes the header line before the first row.
	WriteHeader bool

	// Quoting overrides quoting by zero-based column index.
	Quoting map[int]QuoteMode

	// CommentPrefix, if set, forces quoting of a leading field that would
	// otherwise read back as a comment.
	CommentPrefix string
}

// DefaultFormatOptions returns options whose output parses back with
// DefaultOptions.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		Delimiter:   ",",
		Newline:     "\n",
		Quote:       `"`,
		WriteHeader: true,
	}
}

func (o FormatOptions) escape() string {
	if o.Escape == "" {
		return o.Quote
	}
	return o.Escape
}

// FieldString renders a value as field text: nil as empty, time.Time as
// RFC 3339 in UTC, maps and slices as JSON, anything else with fmt.
func FieldString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatField renders one field, quoting it when it contains the delimiter,
// the newline, the quote, a byte order mark, or leading or trailing space.
func FormatField(value any, mode QuoteMode, opts FormatOptions) string {
	field := FieldString(value)
	if field == "" || mode == QuoteNever {
		return field
	}
	if mode == QuoteAlways || needsQuotes(field, opts) {
		return opts.Quote + strings.ReplaceAll(field, opts.Quote, opts.escape()+opts.Quote) + opts.Quote
	}
	return field
}

func needsQuotes(field string, opts FormatOptions) bool {
	return strings.Contains(field, opts.Delimiter) ||
		strings.Contains(field, opts.Newline) ||
		strings.Contains(field, opts.Quote) ||
		strings.Contains(field, "\ufeff") ||
		field[0] == ' ' || field[0] == '\t' ||
		field[len(field)-1] == ' ' || field[len(field)-1] == '\t'
}

// Writer writes rows as delimited text.
//
// Example:
//
//	w := csv.NewWriter(os.Stdout, csv.DefaultFormatOptions())
//	for _, row := range csv.DataRows(events) {
//	    if err := w.Write(row); err != nil {
//	        return err
//	    }
//	}
//	return w.Flush()
type Writer struct {
	w           *bufio.Writer
	opts        FormatOptions
	header      []string
	wroteHeader bool
	line        []string
}

// NewWriter returns a Writer writing to w.
func NewWriter(w io.Writer, opts FormatOptions) *Writer {
	return &Writer{
		w:      bufio.NewWriter(w),
		opts:   opts,
		header: opts.Header,
	}
}

// Write writes one row. Keyed rows are written in header order, with
// missing keys left empty; positional rows are written as is.
func (w *Writer) Write(row *Row) error {
	if row.Positional() {
		return w.WriteRecord(row.Values)
	}
	if w.header == nil {
		w.header = append([]string(nil), row.Keys...)
	}
	values := make([]any, len(w.header))
	for i, name := range w.header {
		values[i], _ = row.Get(name)
	}
	return w.WriteRecord(values)
}

// WriteRecord writes one line of values.
func (w *Writer) WriteRecord(values []any) error {
	if w.opts.WriteHeader && !w.wroteHeader && w.header != nil {
		w.wroteHeader = true
		names := make([]any, len(w.header))
		for i, name := range w.header {
			names[i] = name
		}
		if err := w.writeLine(names); err != nil {
			return err
		}
	}
	return w.writeLine(values)
}

func (w *Writer) writeLine(values []any) error {
	w.line = w.line[:0]
	for i, v := range values {
		field := FormatField(v, w.opts.Quoting[i], w.opts)
		if i == 0 && w.opts.CommentPrefix != "" && w.opts.Quoting[i] != QuoteNever &&
			strings.HasPrefix(field, w.opts.CommentPrefix) {
			field = FormatField(v, QuoteAlways, w.opts)
		}
		w.line = append(w.line, field)
	}
	// A lone empty field would read back as a blank line.
	if len(w.line) == 1 && w.line[0] == "" {
		w.line[0] = w.opts.Quote + w.opts.Quote
	}

	if _, err := w.w.WriteString(strings.Join(w.line, w.opts.Delimiter)); err != nil {
		return err
	}
	_, err := w.w.WriteString(w.opts.Newline)
	return err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Format renders rows as delimited text.
//
// Example:
//
//	events, _ := csv.Parse("a,b\n1,\"x,y\"\n", csv.DefaultOptions())
//	out, _ := csv.Format(csv.DataRows(events), csv.DefaultFormatOptions())
//	// out: a,b\n1,"x,y"\n
func Format(rows []*Row, opts FormatOptions) (string, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf, opts)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderNode converts an AST node to delimited text.
//
// The node must be an *ast.ArrayDataNode of records, each an
// *ast.ArrayDataNode of *ast.LiteralNode fields, such as the result of
// ParseToNode. Header handling is left to the node: every record is
// written.
//
// Example:
//
//	node, _ := csv.ParseToNode("name,age\nAlice,30\n", csv.DefaultOptions())
//	out, _ := csv.RenderNode(node, csv.DefaultFormatOptions())
//	// out: name,age\nAlice,30\n
func RenderNode(node ast.SchemaNode, opts FormatOptions) ([]byte, error) {
	if node == nil {
		return []byte{}, nil
	}
	records, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("unsupported node type for CSV rendering: %T", node)
	}

	opts.Header = nil
	opts.WriteHeader = false
	var buf bytes.Buffer
	w := NewWriter(&buf, opts)
	for i, elem := range records.Elements() {
		values, err := recordValues(elem)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := w.WriteRecord(values); err != nil {
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// recordValues extracts the literal values of a record node.
func recordValues(node ast.SchemaNode) ([]any, error) {
	record, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return nil, fmt.Errorf("unexpected element type in array: %T", node)
	}
	elements := record.Elements()
	values := make([]any, len(elements))
	for i, elem := range elements {
		lit, ok := elem.(*ast.LiteralNode)
		if !ok {
			return nil, fmt.Errorf("unexpected field type: %T", elem)
		}
		values[i] = lit.Value()
	}
	return values, nil
}
