package csv

import (
	"reflect"
	"strings"
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
)

func TestParseToNode(t *testing.T) {
	node, err := ParseToNode("name,age\nAlice,30\n\nBob,25\n", DefaultOptions())
	if err != nil {
		t.Fatalf("ParseToNode() error = %v", err)
	}
	want := [][]string{{"name", "age"}, {"Alice", "30"}, {"Bob", "25"}}
	if got := NodeToRecords(node); !reflect.DeepEqual(got, want) {
		t.Errorf("NodeToRecords() = %q, want %q", got, want)
	}
}

func TestParseToNode_Coerced(t *testing.T) {
	opts := DefaultOptions()
	opts.Coerce = CoerceNumber
	node, err := ParseToNode("n\n7\n", opts)
	if err != nil {
		t.Fatal(err)
	}
	rec := node.(*ast.ArrayDataNode).Elements()[1].(*ast.ArrayDataNode)
	lit := rec.Elements()[0].(*ast.LiteralNode)
	if lit.Value() != int64(7) {
		t.Errorf("literal = %#v, want int64(7)", lit.Value())
	}
}

func TestParseReaderToNode(t *testing.T) {
	opts := DefaultOptions()
	opts.Header = HeaderNone
	opts.Source.ChunkSize = 4
	node, err := ParseReaderToNode(strings.NewReader("1,2\n3,4\n"), opts)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"1", "2"}, {"3", "4"}}
	if got := NodeToRecords(node); !reflect.DeepEqual(got, want) {
		t.Errorf("NodeToRecords() = %q, want %q", got, want)
	}

	if _, err := ParseReaderToNode(strings.NewReader("\"open"), DefaultOptions()); err == nil {
		t.Error("ParseReaderToNode() error = nil for unclosed quote")
	}
}

func TestEventsToNode_HeaderOrder(t *testing.T) {
	events := []Event{
		{Line: 2, Row: &Row{Keys: []string{"b", "a"}, Values: []any{"2", "1"}}},
		{Line: 3, Err: &RowError{Code: EmptyLineExists}},
		{Line: 4, Row: &Row{Keys: []string{"a"}, Values: []any{"x"}}},
	}
	got := NodeToRecords(EventsToNode(events, []string{"a", "b"}))
	want := [][]string{{"a", "b"}, {"1", "2"}, {"x", ""}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("records = %q, want %q", got, want)
	}
}

func TestRowToNode(t *testing.T) {
	keyed := RowToNode(&Row{Keys: []string{"a"}, Values: []any{"1"}})
	if _, ok := keyed.(*ast.ArrayDataNode); ok || keyed == nil {
		t.Errorf("keyed row = %T, want an object node", keyed)
	}
	positional := RowToNode(&Row{Values: []any{"1", "2"}})
	arr, ok := positional.(*ast.ArrayDataNode)
	if !ok || len(arr.Elements()) != 2 {
		t.Errorf("positional row = %T, want 2-element *ast.ArrayDataNode", positional)
	}
}

func TestNodeToRecords_Shapes(t *testing.T) {
	pos := ast.ZeroPosition()
	single := ast.NewArrayDataNode([]ast.SchemaNode{
		ast.NewLiteralNode("a", pos),
		ast.NewLiteralNode(int64(1), pos),
	}, pos)
	if got := NodeToRecords(single); !reflect.DeepEqual(got, [][]string{{"a", "1"}}) {
		t.Errorf("single record = %q", got)
	}
	if got := NodeToRecords(ast.NewLiteralNode("x", pos)); len(got) != 0 {
		t.Errorf("literal = %q, want empty", got)
	}
	if got := NodeToRecords(RecordsToNode(nil)); len(got) != 0 {
		t.Errorf("empty table = %q, want empty", got)
	}
}

func TestRecordsToNode_RoundTrip(t *testing.T) {
	records := [][]string{{"x", "y"}, {"1", ""}, {"a,b", `"q"`}}
	if got := NodeToRecords(RecordsToNode(records)); !reflect.DeepEqual(got, records) {
		t.Errorf("round trip = %q, want %q", got, records)
	}
}
