package parser

// Row is one decoded record. Keys is nil for positional rows; otherwise
// Keys[i] names Values[i]. Omitted empty fields are absent from both.
type Row struct {
	Keys   []string
	Values []any
}

// Len returns the number of values in the row.
func (r *Row) Len() int {
	return len(r.Values)
}

// Positional reports whether the row has no keys.
func (r *Row) Positional() bool {
	return r.Keys == nil
}

// Index returns the value at position i, or nil when out of range.
func (r *Row) Index(i int) any {
	if i < 0 || i >= len(r.Values) {
		return nil
	}
	return r.Values[i]
}

// Get returns the value for key. ok is false when the row is positional
// or the key is absent.
func (r *Row) Get(key string) (value any, ok bool) {
	for i, k := range r.Keys {
		if k == key {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns a keyed row as a map. Positional rows return nil.
func (r *Row) Map() map[string]any {
	if r.Keys == nil {
		return nil
	}
	m := make(map[string]any, len(r.Keys))
	for i, k := range r.Keys {
		m[k] = r.Values[i]
	}
	return m
}

// Event is either a decoded row or a recoverable error, tagged with the
// 1-indexed logical line it came from.
type Event struct {
	Line int
	Row  *Row
	Err  *RowError
}

// IsError reports whether the event carries an error.
func (e Event) IsError() bool {
	return e.Err != nil
}
