package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Field is one named value of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is an ordered set of named values. It is the schema-agnostic form
// of a scenario snapshot: typed structs convert into it, and snapshots
// saved under an older or newer schema remain comparable.
type Record []Field

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Float returns the value under key as a float64, if it is numeric.
func (r Record) Float(key string) (float64, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case JSONFloat:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// Keys returns field keys in order.
func (r Record) Keys() []string {
	out := make([]string, len(r))
	for i, f := range r {
		out[i] = f.Key
	}
	return out
}

// Clone returns a copy that does not share the backing array.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// RecordFromMap converts a loosely-typed map into a Record with keys in
// lexical order.
func RecordFromMap(m map[string]any) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(Record, 0, len(keys))
	for _, k := range keys {
		out = append(out, Field{Key: k, Value: m[k]})
	}
	return out
}

// MarshalJSON writes the record as a JSON object, preserving field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(JSONSafe(f.Value))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// numericKeys are the deal and result fields that hold floats. Only these
// decode "Infinity", "-Infinity" and "NaN" back to non-finite floats; the
// same strings under any other key stay strings.
var numericKeys = func() map[string]bool {
	m := map[string]bool{}
	for _, f := range DefaultDealParameters().Record() {
		m[f.Key] = true
	}
	for _, f := range (DealResult{}).Record() {
		if f.Key != "deal_outcome" {
			m[f.Key] = true
		}
	}
	return m
}()

// UnmarshalJSON reads a JSON object, preserving field order. Non-finite
// strings in numeric deal fields decode back to floats.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}
	out := Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("record field %q: %w", key, err)
		}
		if s, ok := v.(string); ok && numericKeys[key] {
			if f, special := parseSpecialFloat(s); special {
				v = f
			}
		}
		out = append(out, Field{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
