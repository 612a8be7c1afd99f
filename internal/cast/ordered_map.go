// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
)

// OrderedMap is a string-keyed map that remembers insertion order. It is
// the decoded form of JSON objects for [KindArray] and [KindJSON] fields,
// and it marshals back to JSON with its keys in the same order.
//
// The zero value is an empty map ready to use. Read methods also accept a
// nil *OrderedMap and treat it as empty.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap returns an empty map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Set stores v under key. A new key is appended to the key order; an
// existing key keeps its position. Set returns m for chaining.
func (m *OrderedMap) Set(key string, v any) *OrderedMap {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// Get returns the value stored under key, or nil.
func (m *OrderedMap) Get(key string) any {
	if m == nil {
		return nil
	}
	return m.values[key]
}

// Lookup returns the value stored under key and whether it was present.
func (m *OrderedMap) Lookup(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key.
func (m *OrderedMap) Delete(key string) {
	if m == nil {
		return
	}
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// Keys returns a copy of the keys in order.
func (m *OrderedMap) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// All iterates over entries in order.
func (m *OrderedMap) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// ToMap returns a shallow copy as a plain Go map. Key order is lost.
func (m *OrderedMap) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// MarshalJSON implements [json.Marshaler], writing keys in insertion order.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalCompact(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := marshalCompact(m.values[k])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements [json.Unmarshaler]. Nested objects are decoded
// as *OrderedMap, arrays as []any.
func (m *OrderedMap) UnmarshalJSON(data []byte) error {
	v, err := decodeJSON(data, wrapOrderedMap)
	if err != nil {
		return err
	}
	decoded, ok := v.(*OrderedMap)
	if !ok {
		return fmt.Errorf("cannot unmarshal %T into OrderedMap", v)
	}
	*m = *decoded
	return nil
}

// marshalCompact encodes v as compact JSON without HTML escaping, so the
// text handed to the encrypter is exactly what a reader would expect.
func marshalCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// objectWrapper converts a freshly decoded JSON object into the type the
// cast kind exposes.
type objectWrapper func(*OrderedMap) any

func wrapOrderedMap(m *OrderedMap) any { return m }

func wrapObject(m *OrderedMap) any { return &Object{fields: m} }

// decodeJSON parses a single JSON document, keeping object key order.
// Integral numbers become int64, other numbers float64.
func decodeJSON(data []byte, wrap objectWrapper) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	d := &jsonDecoder{dec: dec, wrap: wrap}
	v, err := d.value()
	if err != nil {
		return nil, err
	}

	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	return v, nil
}

type jsonDecoder struct {
	dec  *json.Decoder
	wrap objectWrapper
}

func (d *jsonDecoder) value() (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return d.object()
		case '[':
			return d.array()
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case json.Number:
		return number(t)
	default:
		// string, bool or nil
		return t, nil
	}
}

func (d *jsonDecoder) object() (any, error) {
	m := NewOrderedMap()
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key %v", tok)
		}

		v, err := d.value()
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}

	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}

	return d.wrap(m), nil
}

func (d *jsonDecoder) array() (any, error) {
	list := make([]any, 0)
	for d.dec.More() {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}

	if _, err := d.dec.Token(); err != nil {
		return nil, err
	}

	return list, nil
}

func number(n json.Number) (any, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}
	return n.Float64()
}
