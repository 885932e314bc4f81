package csvparse

import (
	"bytes"
	"encoding/json"
)

// Record is one data row keyed by header name. Field order follows the
// header; a duplicated header name keeps its first position and holds the
// value of its last occurrence.
type Record struct {
	fields []string
	values map[string]string
}

func newRecord(size int) Record {
	return Record{
		fields: make([]string, 0, size),
		values: make(map[string]string, size),
	}
}

func (r *Record) set(name, value string) {
	if _, exists := r.values[name]; !exists {
		r.fields = append(r.fields, name)
	}
	r.values[name] = value
}

// Get returns the value stored under name.
func (r Record) Get(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Value returns the value stored under name, or "" if the field is absent.
func (r Record) Value(name string) string {
	return r.values[name]
}

// Fields returns the field names in header order.
func (r Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Len returns the number of distinct fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Map returns a copy of the record as a plain map.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Equal reports whether both records hold the same fields, in the same
// order, with the same values.
func (r Record) Equal(other Record) bool {
	if len(r.fields) != len(other.fields) {
		return false
	}
	for i, name := range r.fields {
		if other.fields[i] != name || other.values[name] != r.values[name] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
