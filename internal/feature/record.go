// Package feature provides the feature list model, its order-preserving JSON
// codec, and the status updater that advances QA and development flags.
package feature

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field names written by the status updater.
const (
	FieldDescription    = "description"
	FieldIsDevDone      = "is_dev_done"
	FieldDevCompletedAt = "dev_completed_at"
	FieldPasses         = "passes"
	FieldIsQAPassed     = "is_qa_passed"
	FieldQACompletedAt  = "qa_completed_at"
	FieldQARetryCount   = "qa_retry_count"
)

// field is a single key/value pair of a record, kept in file order.
type field struct {
	key   string
	value json.RawMessage
}

// Record is one feature entry. Fields are kept in the order they appeared in
// the source file so that a rewrite only touches what the updater changed.
type Record struct {
	fields []field
}

// NewRecord creates a record with the given description and all flags unset.
func NewRecord(description string) *Record {
	r := &Record{}
	r.SetString(FieldDescription, description)
	return r
}

// Keys returns the record's field names in order.
func (r *Record) Keys() []string {
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.key
	}
	return keys
}

// Raw returns the raw JSON value of key and whether it is present.
func (r *Record) Raw(key string) (json.RawMessage, bool) {
	for _, f := range r.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Raw(key)
	return ok
}

// Bool reads key with default-false semantics. Absent keys, null, false, 0
// and the empty string all read as false.
func (r *Record) Bool(key string) bool {
	raw, ok := r.Raw(key)
	if !ok {
		return false
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return truthy(v)
}

// String reads key as a string, returning "" when absent or not a string.
func (r *Record) String(key string) string {
	raw, ok := r.Raw(key)
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Int reads key as an integer, returning 0 when absent or not a number.
func (r *Record) Int(key string) int {
	raw, ok := r.Raw(key)
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return int(n)
}

// Description returns the record's free-text label.
func (r *Record) Description() string {
	return r.String(FieldDescription)
}

// SetBool sets key to a JSON boolean.
func (r *Record) SetBool(key string, v bool) {
	if v {
		r.set(key, json.RawMessage("true"))
		return
	}
	r.set(key, json.RawMessage("false"))
}

// SetString sets key to a JSON string.
func (r *Record) SetString(key, v string) {
	raw, err := marshalNoEscape(v)
	if err != nil {
		// strings always marshal
		panic(fmt.Sprintf("marshal string field %q: %v", key, err))
	}
	r.set(key, raw)
}

// set replaces an existing value in place or appends a new key at the end.
func (r *Record) set(key string, value json.RawMessage) {
	for i := range r.fields {
		if r.fields[i].key == key {
			r.fields[i].value = value
			return
		}
	}
	r.fields = append(r.fields, field{key: key, value: value})
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{fields: make([]field, len(r.fields))}
	for i, f := range r.fields {
		c.fields[i] = field{key: f.key, value: append(json.RawMessage(nil), f.value...)}
	}
	return c
}

// UnmarshalJSON decodes a JSON object, keeping key order and raw values.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("feature record must be a JSON object, got %v", tok)
	}

	r.fields = r.fields[:0]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding field %q: %w", key, err)
		}
		// duplicate keys: the last value wins
		r.set(key, value)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(f.value) == 0 {
			buf.WriteString("null")
			continue
		}
		buf.Write(f.value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalNoEscape encodes v without HTML escaping and without the trailing
// newline json.Encoder appends.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		// arrays and objects are truthy
		return true
	}
}
