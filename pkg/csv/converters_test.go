package csv

import (
	"reflect"
	"testing"
	"time"
)

func TestCoercers(t *testing.T) {
	tests := []struct {
		name   string
		coerce Coercer
		field  string
		want   any
		ok     bool
	}{
		{"string", CoerceString, "x", "x", true},
		{"true", CoerceBool, "TRUE", true, true},
		{"false", CoerceBool, "false", false, true},
		{"bool rejects", CoerceBool, "yes", nil, false},
		{"integer", CoerceInteger, "-42", int64(-42), true},
		{"integer spaces", CoerceInteger, " 7 ", int64(7), true},
		{"integer rejects decimal", CoerceInteger, "1.5", nil, false},
		{"decimal", CoerceDecimal, "1.5", 1.5, true},
		{"decimal rejects inf", CoerceDecimal, "Inf", nil, false},
		{"decimal rejects nan", CoerceDecimal, "NaN", nil, false},
		{"number int", CoerceNumber, "10", int64(10), true},
		{"number float", CoerceNumber, "1e3", 1000.0, true},
		{"number rejects", CoerceNumber, "ten", nil, false},
		{"null", CoerceNull, "NULL", nil, true},
		{"null rejects", CoerceNull, "", nil, false},
		{"json object", CoerceJSON, `{"a":1}`, map[string]any{"a": 1.0}, true},
		{"json array", CoerceJSON, `[1,"x"]`, []any{1.0, "x"}, true},
		{"json rejects", CoerceJSON, `{a}`, nil, false},
		{"any bool", CoerceAny, "true", true, true},
		{"any number", CoerceAny, "3", int64(3), true},
		{"any null", CoerceAny, "null", nil, true},
		{"any json", CoerceAny, `"quoted"`, "quoted", true},
		{"any rejects text", CoerceAny, "plain", nil, false},
		{"null values", NullValues("N/A", "-"), "-", nil, true},
		{"null values rejects", NullValues("N/A"), "n/a", nil, false},
		{"timestamp date", CoerceTimestamp, "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"timestamp rejects", CoerceTimestamp, "yesterday", nil, false},
		{"time custom layout", CoerceTime("02/01/2006"), "31/12/1999", time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.coerce(tt.field, 0)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if want, isTime := tt.want.(time.Time); isTime {
				if g, _ := got.(time.Time); !g.Equal(want) {
					t.Errorf("got %v, want %v", got, want)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCoerceTimestamp_Zone(t *testing.T) {
	got, ok := CoerceTimestamp("2024-03-01T10:00:00+02:00", 0)
	if !ok {
		t.Fatal("CoerceTimestamp() declined RFC 3339")
	}
	want := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	if !got.(time.Time).Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestColumns(t *testing.T) {
	c := Columns(map[int]Coercer{1: CoerceInteger})
	if v, ok := c("5", 0); ok {
		t.Errorf("column 0 coerced to %v", v)
	}
	if v, ok := c("5", 1); !ok || v != int64(5) {
		t.Errorf("column 1 = %v, %v", v, ok)
	}

	byName := ColumnsByName([]string{"id", "active"}, map[string]Coercer{"active": CoerceBool, "missing": CoerceNull})
	if v, ok := byName("true", 1); !ok || v != true {
		t.Errorf("active = %v, %v", v, ok)
	}
	if _, ok := byName("1", 0); ok {
		t.Error("id coerced without a coercer")
	}
}

func TestChain_Order(t *testing.T) {
	c := Chain(NullValues("1"), CoerceInteger)
	if v, ok := c("1", 0); !ok || v != nil {
		t.Errorf("Chain() = %v, %v, want nil from the first coercer", v, ok)
	}
	if v, ok := c("2", 0); !ok || v != int64(2) {
		t.Errorf("Chain() = %v, %v, want 2", v, ok)
	}
}

func TestCoerce_PanicKeepsField(t *testing.T) {
	opts := DefaultOptions()
	opts.Header = HeaderNone
	opts.Coerce = func(field string, index int) (any, bool) {
		if index == 1 {
			panic("boom")
		}
		return CoerceInteger(field, index)
	}
	events, err := Parse("1,2\n", opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []any{int64(1), "2"}
	if !reflect.DeepEqual(events[0].Row.Values, want) {
		t.Errorf("Values = %#v, want %#v", events[0].Row.Values, want)
	}
}

func TestEmptyFieldPolicies(t *testing.T) {
	tests := []struct {
		policy EmptyFieldPolicy
		want   []string
	}{
		{EmptyAsString, []string{"2:{a=,b=1}"}},
		{EmptyAsNull, []string{"2:{a=<nil>,b=1}"}},
		{EmptyOmit, []string{"2:{b=1}"}},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.EmptyField = tt.policy
			events, err := Parse("a,b\n,1\n", opts)
			if err != nil {
				t.Fatal(err)
			}
			assertEvents(t, events, tt.want)
		})
	}
}
