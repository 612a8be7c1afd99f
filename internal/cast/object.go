// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cast

import "fmt"

// Object is a dynamic keyed container, the decoded form of JSON objects for
// [KindObject] fields. Nested JSON objects are decoded as *Object too;
// arrays are []any and scalars keep their JSON types. The zero value is an
// empty object.
type Object struct {
	fields *OrderedMap
}

// NewObject returns an object with no fields.
func NewObject() *Object {
	return &Object{fields: NewOrderedMap()}
}

// Get returns the field value, or nil when the field is absent.
func (o *Object) Get(key string) any {
	return o.fields.Get(key)
}

// Lookup returns the field value and whether the field exists.
func (o *Object) Lookup(key string) (any, bool) {
	return o.fields.Lookup(key)
}

// Has reports whether the field exists.
func (o *Object) Has(key string) bool {
	_, ok := o.fields.Lookup(key)
	return ok
}

// Set assigns a field and returns o for chaining.
func (o *Object) Set(key string, v any) *Object {
	if o.fields == nil {
		o.fields = NewOrderedMap()
	}
	o.fields.Set(key, v)
	return o
}

// Keys returns field names in declaration order.
func (o *Object) Keys() []string {
	return o.fields.Keys()
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return o.fields.Len()
}

// MarshalJSON implements [json.Marshaler]. An object always encodes as a
// JSON object, "{}" when empty.
func (o *Object) MarshalJSON() ([]byte, error) {
	return o.fields.MarshalJSON()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := decodeJSON(data, wrapObject)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("cannot unmarshal %T into Object", v)
	}
	*o = *decoded
	return nil
}
