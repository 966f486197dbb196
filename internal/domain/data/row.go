package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// Row represents a single dataset record.
// Fields keep their insertion order; Key = field name, Value = cell value.
type Row struct {
	fields []string
	values map[string]Value
}

// Field is a single name/value pair used to build rows.
type Field struct {
	Name  string
	Value Value
}

// F is shorthand for building a Field.
func F(name string, value Value) Field {
	return Field{Name: name, Value: value}
}

// NewRow creates a new Row from the given fields, in order
func NewRow(fields ...Field) Row {
	r := Row{
		fields: make([]string, 0, len(fields)),
		values: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// Get returns the value of a field. Absent fields return (nil, false).
func (r Row) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value of a field, or nil when absent.
func (r Row) Value(name string) Value {
	return r.values[name]
}

// Has reports whether the row carries the field.
func (r Row) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Set adds or updates a field. New fields are appended after existing ones.
func (r *Row) Set(name string, value Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[name]; !ok {
		r.fields = append(r.fields, name)
	}
	r.values[name] = Normalize(value)
}

// Delete removes a field if present
func (r *Row) Delete(name string) {
	if _, ok := r.values[name]; !ok {
		return
	}
	delete(r.values, name)
	for i, f := range r.fields {
		if f == name {
			r.fields = append(r.fields[:i:i], r.fields[i+1:]...)
			break
		}
	}
}

// Fields returns the field names in order. The slice is a copy.
func (r Row) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of fields
func (r Row) Len() int {
	return len(r.fields)
}

// Copy creates a copy of the row so the original is never mutated
func (r Row) Copy() Row {
	cp := Row{
		fields: make([]string, len(r.fields)),
		values: make(map[string]Value, len(r.values)),
	}
	copy(cp.fields, r.fields)
	for k, v := range r.values {
		cp.values[k] = v
	}
	return cp
}

// Project returns a new row holding exactly the listed fields in the listed
// order. Fields missing from the source row are present with a nil value.
func (r Row) Project(fields []string) Row {
	out := Row{
		fields: make([]string, 0, len(fields)),
		values: make(map[string]Value, len(fields)),
	}
	for _, f := range fields {
		if _, dup := out.values[f]; dup {
			continue
		}
		out.fields = append(out.fields, f)
		out.values[f] = r.values[f]
	}
	return out
}

// ToMap returns the row as a plain map (order is lost)
func (r Row) ToMap() map[string]Value {
	m := make(map[string]Value, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// String returns a string representation for debugging
func (r Row) String() string {
	var buf bytes.Buffer
	buf.WriteString("Row{")
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s: %v", f, r.values[f])
	}
	buf.WriteString("}")
	return buf.String()
}

// MarshalJSON implements json.Marshaler.
// The row is written as an object whose keys keep the row's field order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := marshalValue(r.values[f])
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalValue writes NaN and infinities as null, like InvalidDate
func marshalValue(v Value) ([]byte, error) {
	if f, ok := Normalize(v).(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
// Key order of the JSON object becomes the row's field order.
func (r *Row) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("row must be a JSON object")
	}

	*r = NewRow()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		if n, ok := raw.(json.Number); ok {
			f, err := n.Float64()
			if err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
			raw = f
		}
		r.Set(name, raw)
	}

	if _, err := dec.Token(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
