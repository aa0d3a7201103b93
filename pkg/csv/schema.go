package csv

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// ColumnType is the expected type of a column's values.
type ColumnType string

const (
	ColumnTypeString    ColumnType = "string"
	ColumnTypeInteger   ColumnType = "integer"
	ColumnTypeNumber    ColumnType = "number"
	ColumnTypeBool      ColumnType = "bool"
	ColumnTypeTimestamp ColumnType = "timestamp"
	ColumnTypeJSON      ColumnType = "json"
	ColumnTypeAny       ColumnType = "any"
)

// coercer returns the Coercer converting fields of type t, or nil when
// fields stay strings.
func (t ColumnType) coercer() Coercer {
	switch t {
	case ColumnTypeInteger:
		return CoerceInteger
	case ColumnTypeNumber:
		return CoerceNumber
	case ColumnTypeBool:
		return CoerceBool
	case ColumnTypeTimestamp:
		return CoerceTimestamp
	case ColumnTypeJSON:
		return CoerceJSON
	case ColumnTypeAny:
		return CoerceAny
	}
	return nil
}

// ColumnDefinition defines the schema for a single column.
type ColumnDefinition struct {
	// Name is the column header name.
	Name string
	// Type is the expected data type.
	Type ColumnType
	// Required rejects empty and null values.
	Required bool
	// AllowedValues restricts values to a specific set.
	AllowedValues []string
	// MinLength is the minimum string length (0 = no minimum).
	MinLength int
	// MaxLength is the maximum string length (0 = no maximum).
	MaxLength int
	// Validator is an optional custom check run on the field text.
	Validator func(value string) error
}

// Schema describes the expected columns of keyed rows.
type Schema struct {
	Columns []ColumnDefinition
	// AllowExtraColumns permits header names not in Columns.
	AllowExtraColumns bool
	// AllowMissingColumns permits Columns absent from the header.
	AllowMissingColumns bool
}

// NewSchema creates a new empty schema.
func NewSchema() *Schema {
	return &Schema{}
}

// AddColumn adds a column definition to the schema.
func (s *Schema) AddColumn(col ColumnDefinition) *Schema {
	s.Columns = append(s.Columns, col)
	return s
}

// AddSimpleColumn adds a column with just name and type.
func (s *Schema) AddSimpleColumn(name string, colType ColumnType) *Schema {
	return s.AddColumn(ColumnDefinition{Name: name, Type: colType})
}

// AddRequiredColumn adds a required column with name and type.
func (s *Schema) AddRequiredColumn(name string, colType ColumnType) *Schema {
	return s.AddColumn(ColumnDefinition{Name: name, Type: colType, Required: true})
}

// Names returns the column names in order, suitable for
// Options.HeaderNames.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// Coercer returns a Coercer converting each column of header to its
// schema type. Columns without a type, or not in the schema, stay
// strings.
//
// Example:
//
//	opts.HeaderNames = schema.Names()
//	opts.Header = csv.HeaderExplicit
//	opts.Coerce = schema.Coercer(opts.HeaderNames)
func (s *Schema) Coercer(header []string) Coercer {
	byName := make(map[string]Coercer, len(s.Columns))
	for _, col := range s.Columns {
		if c := col.Type.coercer(); c != nil {
			byName[col.Name] = c
		}
	}
	return ColumnsByName(header, byName)
}

// ValidationError is one schema violation.
type ValidationError struct {
	// Line is the input line of the row, 0 for the header.
	Line    int
	Column  string
	Value   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("header: column %q: %s", e.Column, e.Message)
	}
	return fmt.Sprintf("line %d, column %q: %s (value: %q)", e.Line, e.Column, e.Message, e.Value)
}

// ValidationResult collects the violations found by Validate.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// AddError records a violation.
func (r *ValidationResult) AddError(err ValidationError) {
	r.Errors = append(r.Errors, err)
	r.Valid = false
}

// Error returns the first error message or empty string if valid.
func (r *ValidationResult) Error() string {
	if r.Valid || len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Error()
}

// AllErrors returns all error messages joined by newlines.
func (r *ValidationResult) AllErrors() string {
	msgs := make([]string, len(r.Errors))
	for i := range r.Errors {
		msgs[i] = r.Errors[i].Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateHeader checks header against the schema's columns.
func (s *Schema) ValidateHeader(header []string) *ValidationResult {
	result := &ValidationResult{Valid: true}
	s.validateHeader(header, result)
	return result
}

func (s *Schema) validateHeader(header []string, result *ValidationResult) {
	if !s.AllowMissingColumns {
		for _, col := range s.Columns {
			if !slices.Contains(header, col.Name) {
				result.AddError(ValidationError{Column: col.Name, Message: "required column not found in header"})
			}
		}
	}
	if !s.AllowExtraColumns {
		for _, name := range header {
			if !slices.ContainsFunc(s.Columns, func(c ColumnDefinition) bool { return c.Name == name }) {
				result.AddError(ValidationError{Column: name, Message: "unexpected column not in schema"})
			}
		}
	}
}

// Validate checks the header and the data rows of events against the
// schema. Error events are skipped. Rows may hold strings or values
// already converted by the schema's Coercer.
//
// Example:
//
//	events, _ := csv.Parse(input, opts)
//	if res := schema.Validate(events, header); !res.Valid {
//	    log.Println(res.AllErrors())
//	}
func (s *Schema) Validate(events []Event, header []string) *ValidationResult {
	result := &ValidationResult{Valid: true}
	if header != nil {
		s.validateHeader(header, result)
	}
	for _, ev := range events {
		if ev.Row == nil {
			continue
		}
		for i := range s.Columns {
			s.validateField(&s.Columns[i], ev, result)
		}
	}
	return result
}

func (s *Schema) validateField(col *ColumnDefinition, ev Event, result *ValidationResult) {
	val, present := ev.Row.Get(col.Name)
	if !present && ev.Row.Positional() {
		return
	}
	text := FieldString(val)
	fail := func(msg string) {
		result.AddError(ValidationError{Line: ev.Line, Column: col.Name, Value: text, Message: msg})
	}

	if val == nil || text == "" {
		if col.Required {
			fail("required field is empty")
		}
		return
	}

	if _, isString := val.(string); isString {
		if c := col.Type.coercer(); c != nil && col.Type != ColumnTypeAny {
			if _, ok := c(text, 0); !ok {
				fail(fmt.Sprintf("invalid %s", col.Type))
				return
			}
		}
	}
	if len(col.AllowedValues) > 0 && !slices.Contains(col.AllowedValues, text) {
		fail(fmt.Sprintf("value not in allowed set: %v", col.AllowedValues))
	}
	if col.MinLength > 0 && len(text) < col.MinLength {
		fail(fmt.Sprintf("value length %d is less than minimum %d", len(text), col.MinLength))
	}
	if col.MaxLength > 0 && len(text) > col.MaxLength {
		fail(fmt.Sprintf("value length %d exceeds maximum %d", len(text), col.MaxLength))
	}
	if col.Validator != nil {
		if err := col.Validator(text); err != nil {
			fail(err.Error())
		}
	}
}

// SchemaFromStruct builds a schema from the csv tags of a struct type.
// The "required" tag option marks required columns.
func SchemaFromStruct(v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("SchemaFromStruct requires a struct type, got nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("SchemaFromStruct requires a struct type, got %s", t.Kind())
	}

	schema := NewSchema()
	for _, f := range cachedFields(t) {
		schema.AddColumn(ColumnDefinition{
			Name:     f.name,
			Type:     goTypeToColumnType(f.typ),
			Required: f.required,
		})
	}
	return schema, nil
}

func goTypeToColumnType(t reflect.Type) ColumnType {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return ColumnTypeTimestamp
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return ColumnTypeInteger
	case reflect.Float32, reflect.Float64:
		return ColumnTypeNumber
	case reflect.Bool:
		return ColumnTypeBool
	case reflect.String:
		return ColumnTypeString
	default:
		return ColumnTypeAny
	}
}
