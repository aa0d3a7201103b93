package csv

import (
	"io"

	"github.com/shapestone/shape-core/pkg/ast"
)

// RowToNode converts a row to an AST node.
//
//   - keyed row → *ast.ObjectNode of *ast.LiteralNode values
//   - positional row → *ast.ArrayDataNode of *ast.LiteralNode values
//
// Literal values keep the type produced by the coercer.
func RowToNode(row *Row) ast.SchemaNode {
	pos := ast.ZeroPosition()
	if row.Positional() {
		return valuesToNode(row.Values, pos)
	}
	props := make(map[string]ast.SchemaNode, len(row.Keys))
	for i, k := range row.Keys {
		props[k] = ast.NewLiteralNode(row.Values[i], pos)
	}
	return ast.NewObjectNode(props, pos)
}

// EventsToNode converts the data rows of events to a table node: an
// *ast.ArrayDataNode of records, each an *ast.ArrayDataNode of literals.
//
// When header is non-nil it becomes the first record and keyed rows are laid
// out in its order, missing keys as nil. Each record node carries the line
// it was read from. Error events are skipped.
func EventsToNode(events []Event, header []string) *ast.ArrayDataNode {
	records := make([]ast.SchemaNode, 0, len(events)+1)
	if header != nil {
		names := make([]any, len(header))
		for i, name := range header {
			names[i] = name
		}
		records = append(records, valuesToNode(names, ast.NewPosition(0, 1, 1)))
	}

	for _, ev := range events {
		if ev.Row == nil {
			continue
		}
		values := ev.Row.Values
		if !ev.Row.Positional() && header != nil {
			values = make([]any, len(header))
			for i, name := range header {
				values[i], _ = ev.Row.Get(name)
			}
		}
		records = append(records, valuesToNode(values, ast.NewPosition(0, ev.Line, 1)))
	}
	return ast.NewArrayDataNode(records, ast.ZeroPosition())
}

// ParseToNode parses input and returns it as a table node (see
// EventsToNode). Soft errors are dropped; use Parse to see them.
//
// Example:
//
//	node, _ := csv.ParseToNode("name,age\nAlice,30\n", csv.DefaultOptions())
//	records := csv.NodeToRecords(node)
//	// records is [][]string{{"name","age"}, {"Alice","30"}}
func ParseToNode(input string, opts Options) (ast.SchemaNode, error) {
	s, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := s.ProcessChunk(input, func(ev Event) { events = append(events, ev) }, true); err != nil {
		return nil, err
	}
	return EventsToNode(events, s.Header()), nil
}

// ParseReaderToNode is ParseToNode reading from r through a ChunkSource.
func ParseReaderToNode(r io.Reader, opts Options) (ast.SchemaNode, error) {
	sc := NewScanner(r, opts)
	var events []Event
	for ev := range sc.Events() {
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return EventsToNode(events, sc.Header()), nil
}

// NodeToRecords converts a table node to string records, rendering each
// literal with FieldString. A single record node is wrapped.
//
// Example:
//
//	records := csv.NodeToRecords(node)
//	// records is [][]string{{"name","age"}, {"Alice","30"}}
func NodeToRecords(node ast.SchemaNode) [][]string {
	arr, ok := node.(*ast.ArrayDataNode)
	if !ok {
		return [][]string{}
	}
	elements := arr.Elements()
	if len(elements) == 0 {
		return [][]string{}
	}
	if _, isRecord := elements[0].(*ast.LiteralNode); isRecord {
		return [][]string{recordStrings(arr)}
	}

	records := make([][]string, 0, len(elements))
	for _, elem := range elements {
		if rec, ok := elem.(*ast.ArrayDataNode); ok {
			records = append(records, recordStrings(rec))
		} else {
			records = append(records, []string{})
		}
	}
	return records
}

// RecordsToNode converts string records to a table node.
//
// Example:
//
//	node := csv.RecordsToNode([][]string{{"name", "age"}, {"Alice", "30"}})
func RecordsToNode(records [][]string) *ast.ArrayDataNode {
	pos := ast.ZeroPosition()
	nodes := make([]ast.SchemaNode, len(records))
	for i, rec := range records {
		fields := make([]ast.SchemaNode, len(rec))
		for j, f := range rec {
			fields[j] = ast.NewLiteralNode(f, pos)
		}
		nodes[i] = ast.NewArrayDataNode(fields, pos)
	}
	return ast.NewArrayDataNode(nodes, pos)
}

func valuesToNode(values []any, pos ast.Position) *ast.ArrayDataNode {
	fields := make([]ast.SchemaNode, len(values))
	for i, v := range values {
		fields[i] = ast.NewLiteralNode(v, ast.ZeroPosition())
	}
	return ast.NewArrayDataNode(fields, pos)
}

func recordStrings(rec *ast.ArrayDataNode) []string {
	elements := rec.Elements()
	fields := make([]string, len(elements))
	for i, elem := range elements {
		if lit, ok := elem.(*ast.LiteralNode); ok {
			fields[i] = FieldString(lit.Value())
		}
	}
	return fields
}
