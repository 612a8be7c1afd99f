// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cast

import (
	"encoding/json"
	"iter"
	"strconv"
)

// Collection is an ordered, keyed collection of items, the decoded form of
// [KindCollection] fields. A collection built from a list keeps sequential
// string keys "0", "1", ... and encodes back to a JSON array; any other
// collection encodes as a JSON object. The zero value is an empty list.
type Collection struct {
	items *OrderedMap
	list  bool
}

// NewCollection returns an empty list collection.
func NewCollection() *Collection {
	return &Collection{items: NewOrderedMap(), list: true}
}

// CollectionOf wraps m. The collection takes ownership of m.
func CollectionOf(m *OrderedMap) *Collection {
	return &Collection{items: m}
}

// CollectionFromSlice builds a list collection from items.
func CollectionFromSlice(items []any) *Collection {
	c := NewCollection()
	for _, v := range items {
		c.Push(v)
	}
	return c
}

// Get returns the item stored under key, or nil.
func (c *Collection) Get(key string) any {
	return c.items.Get(key)
}

// Lookup returns the item stored under key and whether it exists.
func (c *Collection) Lookup(key string) (any, bool) {
	return c.items.Lookup(key)
}

// Has reports whether key exists.
func (c *Collection) Has(key string) bool {
	_, ok := c.items.Lookup(key)
	return ok
}

// Put stores v under key and returns c for chaining. Putting a key that is
// not the next list index turns a list collection into a keyed one.
func (c *Collection) Put(key string, v any) *Collection {
	if c.items == nil {
		c.items, c.list = NewOrderedMap(), true
	}
	if c.list && !c.Has(key) && key != strconv.Itoa(c.items.Len()) {
		c.list = false
	}
	c.items.Set(key, v)
	return c
}

// Push appends v under the next integer key.
func (c *Collection) Push(v any) *Collection {
	return c.Put(strconv.Itoa(c.items.Len()), v)
}

// Keys returns the keys in order.
func (c *Collection) Keys() []string {
	return c.items.Keys()
}

// Values returns the items in order.
func (c *Collection) Values() []any {
	out := make([]any, 0, c.items.Len())
	for _, v := range c.items.All() {
		out = append(out, v)
	}
	return out
}

// Len returns the number of items.
func (c *Collection) Len() int {
	return c.items.Len()
}

// IsEmpty reports whether the collection has no items.
func (c *Collection) IsEmpty() bool {
	return c.items.Len() == 0
}

// All iterates over items in order.
func (c *Collection) All() iter.Seq2[string, any] {
	return c.items.All()
}

// MarshalJSON implements [json.Marshaler].
func (c *Collection) MarshalJSON() ([]byte, error) {
	if c.list || c.items == nil {
		return marshalCompact(c.Values())
	}
	return c.items.MarshalJSON()
}

// UnmarshalJSON implements [json.Unmarshaler].
func (c *Collection) UnmarshalJSON(data []byte) error {
	v, err := decodeJSON(data, wrapOrderedMap)
	if err != nil {
		return err
	}
	*c = *collectionFrom(v)
	return nil
}

// collectionFrom wraps a decoded JSON value. Scalars become a single-item
// list.
func collectionFrom(v any) *Collection {
	switch t := v.(type) {
	case *OrderedMap:
		return CollectionOf(t)
	case []any:
		return CollectionFromSlice(t)
	case nil:
		return NewCollection()
	default:
		return CollectionFromSlice([]any{t})
	}
}

var (
	_ json.Marshaler   = (*Collection)(nil)
	_ json.Unmarshaler = (*Collection)(nil)
)
