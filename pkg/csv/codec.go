package csv

import (
	"bytes"
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Marshaler is implemented by types that render themselves as a single field.
type Marshaler interface {
	MarshalCSV() (string, error)
}

// Unmarshaler is implemented by types that decode themselves from a single
// field.
type Unmarshaler interface {
	UnmarshalCSV(field string) error
}

var (
	marshalerType     = reflect.TypeFor[Marshaler]()
	unmarshalerType   = reflect.TypeFor[Unmarshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalType = reflect.TypeFor[encoding.TextUnmarshaler]()
	timeType          = reflect.TypeFor[time.Time]()
)

// structField describes one exported field taking part in encoding.
type structField struct {
	name      string
	index     int
	omitEmpty bool
	required  bool
	typ       reflect.Type
}

// structFields are cached per type.
var fieldCache sync.Map // map[reflect.Type][]structField

func cachedFields(t reflect.Type) []structField {
	if f, ok := fieldCache.Load(t); ok {
		return f.([]structField)
	}
	f, _ := fieldCache.LoadOrStore(t, typeFields(t))
	return f.([]structField)
}

// typeFields reads the csv tags of t. The tag is "name[,omitempty][,required]";
// "-" skips the field and an empty name keeps the Go field name.
func typeFields(t reflect.Type) []structField {
	fields := make([]structField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() || f.Anonymous {
			continue
		}
		tag := f.Tag.Get("csv")
		if tag == "-" {
			continue
		}
		sf := structField{name: f.Name, index: i, typ: f.Type}
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			sf.name = parts[0]
		}
		for _, opt := range parts[1:] {
			switch opt {
			case "omitempty":
				sf.omitEmpty = true
			case "required":
				sf.required = true
			}
		}
		fields = append(fields, sf)
	}
	return fields
}

// sliceOfStructs returns the struct type of a []T or []*T value.
func sliceOfStructs(t reflect.Type) (elem reflect.Type, ptr bool, err error) {
	if t.Kind() != reflect.Slice {
		return nil, false, fmt.Errorf("csv: expected slice, got %s", t)
	}
	elem = t.Elem()
	if elem.Kind() == reflect.Pointer {
		elem, ptr = elem.Elem(), true
	}
	if elem.Kind() != reflect.Struct {
		return nil, false, fmt.Errorf("csv: expected slice of structs, got slice of %s", t.Elem())
	}
	return elem, ptr, nil
}

// Marshal returns v, a slice of structs or struct pointers, as
// comma-separated text with a header line.
//
// Columns follow struct field order and are named by the "csv" tag or the
// field name. Fields tagged "-" and nil elements are skipped; "omitempty"
// leaves zero values as empty fields.
//
// Example:
//
//	type Person struct {
//	    Name string `csv:"name"`
//	    Age  int    `csv:"age,omitempty"`
//	}
//	out, err := csv.Marshal([]Person{{"Alice", 30}, {"Bob", 0}})
//	// out: name,age\nAlice,30\nBob,\n
func Marshal(v any) ([]byte, error) {
	return MarshalWith(v, DefaultFormatOptions())
}

// MarshalWith is Marshal with explicit output options. opts.Header is
// replaced by the struct's column names.
func MarshalWith(v any, opts FormatOptions) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("csv: Marshal(nil)")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	elem, _, err := sliceOfStructs(rv.Type())
	if err != nil {
		return nil, err
	}
	if rv.Len() == 0 {
		return []byte{}, nil
	}

	fields := cachedFields(elem)
	opts.Header = make([]string, len(fields))
	for i, f := range fields {
		opts.Header[i] = f.name
	}

	var buf bytes.Buffer
	w := NewWriter(&buf, opts)
	values := make([]any, len(fields))
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i)
		if item.Kind() == reflect.Pointer {
			if item.IsNil() {
				continue
			}
			item = item.Elem()
		}
		for j, f := range fields {
			fv := item.Field(f.index)
			if f.omitEmpty && fv.IsZero() {
				values[j] = nil
				continue
			}
			s, err := marshalValue(fv)
			if err != nil {
				return nil, fmt.Errorf("csv: field %s: %w", f.name, err)
			}
			values[j] = s
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

// marshalValue renders a struct field. Nil pointers and interfaces are
// empty.
func marshalValue(rv reflect.Value) (any, error) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Implements(marshalerType) {
			break
		}
		rv = rv.Elem()
	}

	switch {
	case rv.Type().Implements(marshalerType):
		return rv.Interface().(Marshaler).MarshalCSV()
	case rv.Type() == timeType:
		return rv.Interface(), nil
	case rv.Type().Implements(textMarshalerType):
		b, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		return string(b), err
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	default:
		return nil, fmt.Errorf("unsupported type %s", rv.Type())
	}
}

// Unmarshal parses comma-separated data with a header line and stores the
// rows in v.
//
// v must point to a slice of structs, a slice of struct pointers, a
// []map[string]any or a [][]string. Columns are matched to struct fields by
// "csv" tag or field name, ignoring case; unmatched columns are ignored and
// unmatched fields keep their zero value. Soft errors fail the call with
// the first RowError.
//
// Example:
//
//	var people []Person
//	err := csv.Unmarshal([]byte("name,age\nAlice,30\n"), &people)
func Unmarshal(data []byte, v any) error {
	return UnmarshalWith(data, v, DefaultOptions())
}

// UnmarshalWith is Unmarshal with explicit parsing options.
func UnmarshalWith(data []byte, v any, opts Options) error {
	events, err := Parse(string(data), opts)
	if err != nil {
		return err
	}
	if errs := Errors(events); len(errs) > 0 {
		return errs[0]
	}
	return UnmarshalRows(DataRows(events), v)
}

// UnmarshalRows stores already parsed rows in v (see Unmarshal for the
// accepted targets). Keyed rows match fields by name; positional rows fill
// fields in struct order. Values already converted by a Coercer are
// assigned directly when their type fits the field.
func UnmarshalRows(rows []*Row, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("csv: Unmarshal requires a non-nil pointer, got %T", v)
	}
	slice := rv.Elem()

	switch target := v.(type) {
	case *[][]string:
		out := make([][]string, 0, len(rows))
		for _, row := range rows {
			rec := make([]string, len(row.Values))
			for i, val := range row.Values {
				rec[i] = FieldString(val)
			}
			out = append(out, rec)
		}
		*target = out
		return nil
	case *[]map[string]any:
		out := make([]map[string]any, 0, len(rows))
		for _, row := range rows {
			out = append(out, row.Map())
		}
		*target = out
		return nil
	}

	elem, ptr, err := sliceOfStructs(slice.Type())
	if err != nil {
		return err
	}
	fields := cachedFields(elem)
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		byName[strings.ToLower(f.name)] = i
	}

	out := reflect.MakeSlice(slice.Type(), 0, len(rows))
	for _, row := range rows {
		item := reflect.New(elem).Elem()
		for i, val := range row.Values {
			fi := i
			if !row.Positional() {
				var ok bool
				if fi, ok = byName[strings.ToLower(row.Keys[i])]; !ok {
					continue
				}
			} else if fi >= len(fields) {
				break
			}
			f := fields[fi]
			if err := setField(item.Field(f.index), val); err != nil {
				return fmt.Errorf("csv: row %d, column %s: %w", out.Len()+1, f.name, err)
			}
		}
		if ptr {
			item = item.Addr()
		}
		out = reflect.Append(out, item)
	}
	slice.Set(out)
	return nil
}

// setField assigns a parsed value to a struct field. Nil and empty values
// leave the zero value in place.
func setField(fv reflect.Value, val any) error {
	if val == nil {
		return nil
	}
	if s, ok := val.(string); ok && s == "" {
		return nil
	}
	if fv.Kind() == reflect.Pointer {
		p := reflect.New(fv.Type().Elem())
		if err := setField(p.Elem(), val); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}

	if v := reflect.ValueOf(val); v.Type().AssignableTo(fv.Type()) {
		fv.Set(v)
		return nil
	}
	s := FieldString(val)

	if fv.CanAddr() {
		switch addr := fv.Addr(); {
		case addr.Type().Implements(unmarshalerType):
			return addr.Interface().(Unmarshaler).UnmarshalCSV(s)
		case fv.Type() == timeType:
			t, ok := CoerceTimestamp(s, 0)
			if !ok {
				return fmt.Errorf("invalid timestamp %q", s)
			}
			fv.Set(reflect.ValueOf(t))
			return nil
		case addr.Type().Implements(textUnmarshalType):
			return addr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
		}
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		fv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", s)
		}
		fv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(s), fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		fv.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid boolean %q", s)
		}
		fv.SetBool(b)
	case reflect.Interface:
		if fv.NumMethod() != 0 {
			return fmt.Errorf("unsupported type %s", fv.Type())
		}
		fv.Set(reflect.ValueOf(val))
	default:
		return fmt.Errorf("unsupported type %s", fv.Type())
	}
	return nil
}
