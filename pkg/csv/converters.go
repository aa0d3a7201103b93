package csv

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Built-in coercers. Each one converts the fields it recognizes and declines
// (ok=false) the rest, so they compose with Chain.
var (
	// CoerceString returns the field unchanged.
	CoerceString Coercer = func(field string, _ int) (any, bool) { return field, true }

	// CoerceBool converts "true" and "false" (any case).
	CoerceBool = Chain(CoerceTrue, CoerceFalse)

	// CoerceAny tries boolean, number, null and JSON in that order.
	CoerceAny = Chain(CoerceBool, CoerceNumber, CoerceNull, CoerceJSON)
)

// CoerceTrue converts "true" (any case) to true.
func CoerceTrue(field string, _ int) (any, bool) {
	if strings.EqualFold(field, "true") {
		return true, true
	}
	return nil, false
}

// CoerceFalse converts "false" (any case) to false.
func CoerceFalse(field string, _ int) (any, bool) {
	if strings.EqualFold(field, "false") {
		return false, true
	}
	return nil, false
}

// CoerceInteger converts base-10 integers to int64.
func CoerceInteger(field string, _ int) (any, bool) {
	i, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
	if err != nil {
		return nil, false
	}
	return i, true
}

// CoerceDecimal converts finite decimal numbers to float64.
func CoerceDecimal(field string, _ int) (any, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return f, true
}

// CoerceNumber converts integers to int64 and other decimals to float64.
func CoerceNumber(field string, index int) (any, bool) {
	if v, ok := CoerceInteger(field, index); ok {
		return v, true
	}
	return CoerceDecimal(field, index)
}

// CoerceNull converts "null" (any case) to nil.
func CoerceNull(field string, _ int) (any, bool) {
	if strings.EqualFold(field, "null") {
		return nil, true
	}
	return nil, false
}

// CoerceJSON decodes a JSON value: objects become map[string]any, arrays
// []any, numbers float64.
func CoerceJSON(field string, _ int) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(field), &v); err != nil {
		return nil, false
	}
	return v, true
}

// DefaultTimestampLayouts are the layouts tried by CoerceTimestamp.
var DefaultTimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// CoerceTimestamp converts timestamps in any of DefaultTimestampLayouts to
// time.Time. Values without a zone are read as UTC.
func CoerceTimestamp(field string, index int) (any, bool) {
	return CoerceTime(DefaultTimestampLayouts...)(field, index)
}

// CoerceTime returns a coercer trying the given layouts in order.
func CoerceTime(layouts ...string) Coercer {
	return func(field string, _ int) (any, bool) {
		v := strings.TrimSpace(field)
		if v == "" {
			return nil, false
		}
		for _, layout := range layouts {
			if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
				return t, true
			}
		}
		return nil, false
	}
}

// DefaultNullValues is a list of values commonly used for missing data.
var DefaultNullValues = []string{"NULL", "null", "nil", "N/A", "n/a", "NA", "na", "-"}

// NullValues returns a coercer converting any of values to nil.
func NullValues(values ...string) Coercer {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return func(field string, _ int) (any, bool) {
		if _, ok := set[field]; ok {
			return nil, true
		}
		return nil, false
	}
}

// Chain composes coercers left to right; the first that accepts the field
// wins.
func Chain(coercers ...Coercer) Coercer {
	return func(field string, index int) (any, bool) {
		for _, c := range coercers {
			if v, ok := c(field, index); ok {
				return v, true
			}
		}
		return nil, false
	}
}

// Columns dispatches by column index. Columns without an entry are left
// unchanged.
//
// Example:
//
//	opts.Coerce = csv.Columns(map[int]csv.Coercer{
//	    0: csv.CoerceInteger,
//	    2: csv.CoerceTimestamp,
//	})
func Columns(byIndex map[int]Coercer) Coercer {
	return func(field string, index int) (any, bool) {
		if c, ok := byIndex[index]; ok && c != nil {
			return c(field, index)
		}
		return nil, false
	}
}

// ColumnsByName is Columns keyed by header name. header gives the column
// order, normally the explicit HeaderNames.
func ColumnsByName(header []string, byName map[string]Coercer) Coercer {
	byIndex := make(map[int]Coercer, len(byName))
	for i, name := range header {
		if c, ok := byName[name]; ok {
			byIndex[i] = c
		}
	}
	return Columns(byIndex)
}
