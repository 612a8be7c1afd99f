// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package model

import (
	"database/sql"
	"fmt"
	"maps"
	"unicode/utf8"

	"github.com/lhwgwg/framework/internal/cast"
)

// Record is one row of a [Definition] held in memory.
//
// Attributes are kept in their stored form: encrypted columns hold
// ciphertext from the moment they are set. Reading an encrypted attribute
// decrypts it once and caches the decoded value on the record until the
// attribute is set again. A Record is not safe for concurrent use.
type Record struct {
	def    *Definition
	caster *cast.Encrypted

	id     int64
	exists bool

	raw     map[string]sql.NullString
	decoded map[string]any
	dirty   map[string]struct{}
}

// New returns an empty, not yet persisted record of def.
func New(def *Definition, caster *cast.Encrypted) *Record {
	return &Record{
		def:     def,
		caster:  caster,
		raw:     make(map[string]sql.NullString, len(def.Columns)),
		decoded: make(map[string]any),
		dirty:   make(map[string]struct{}),
	}
}

// Definition returns the record's table definition.
func (r *Record) Definition() *Definition {
	return r.def
}

// ID returns the primary key, 0 for a record that was never persisted.
func (r *Record) ID() int64 {
	return r.id
}

// Exists reports whether the record has been persisted.
func (r *Record) Exists() bool {
	return r.exists
}

// Fill sets several attributes at once. Either every attribute is set or,
// on error, none is.
func (r *Record) Fill(attrs map[string]any) error {
	for name := range attrs {
		if _, ok := r.def.Column(name); !ok {
			return fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, r.def.Table, name)
		}
	}

	pending := make(map[string]sql.NullString, len(attrs))
	// Column order keeps encrypter calls deterministic.
	for _, col := range r.def.Columns {
		v, ok := attrs[col.Name]
		if !ok {
			continue
		}
		stored, err := r.encode(col, v)
		if err != nil {
			return err
		}
		pending[col.Name] = stored
	}

	for name, stored := range pending {
		r.store(name, stored)
	}
	return nil
}

// Set assigns a single attribute, encrypting it right away for encrypted
// columns.
func (r *Record) Set(name string, v any) error {
	col, ok := r.def.Column(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, r.def.Table, name)
	}

	stored, err := r.encode(col, v)
	if err != nil {
		return err
	}

	r.store(name, stored)
	return nil
}

// Get returns the in-memory value of an attribute: the decrypted and
// decoded value for encrypted columns, the stored string otherwise, nil
// for NULL.
func (r *Record) Get(name string) (any, error) {
	col, ok := r.def.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownAttribute, r.def.Table, name)
	}

	raw := r.raw[name]
	if !col.Encrypted {
		if !raw.Valid {
			return nil, nil
		}
		return raw.String, nil
	}

	if v, cached := r.decoded[name]; cached {
		return v, nil
	}

	v, err := r.caster.Decode(col.Kind, raw)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", r.def.Table, name, err)
	}

	r.decoded[name] = v
	return v, nil
}

// String returns a plain attribute. NULL reads as "".
func (r *Record) String(name string) (string, error) {
	return typed[string](r, name)
}

// Map returns an array or json attribute. NULL reads as nil.
func (r *Record) Map(name string) (*cast.OrderedMap, error) {
	return typed[*cast.OrderedMap](r, name)
}

// Object returns an object attribute. NULL reads as nil.
func (r *Record) Object(name string) (*cast.Object, error) {
	return typed[*cast.Object](r, name)
}

// Collection returns a collection attribute. NULL reads as nil.
func (r *Record) Collection(name string) (*cast.Collection, error) {
	return typed[*cast.Collection](r, name)
}

func typed[T any](r *Record, name string) (T, error) {
	var zero T

	v, err := r.Get(name)
	if err != nil || v == nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s.%s is %T, want %T", ErrUnexpectedType, r.def.Table, name, v, zero)
	}
	return t, nil
}

// Raw returns the stored form of an attribute, ciphertext for encrypted
// columns.
func (r *Record) Raw(name string) sql.NullString {
	return r.raw[name]
}

// Dirty returns the names of attributes set since the record was last
// persisted, in column order.
func (r *Record) Dirty() []string {
	names := make([]string, 0, len(r.dirty))
	for _, col := range r.def.Columns {
		if _, ok := r.dirty[col.Name]; ok {
			names = append(names, col.Name)
		}
	}
	return names
}

// Hydrate replaces the record state with a row read from storage. Decoded
// values are dropped and the record is marked persisted and clean.
func (r *Record) Hydrate(id int64, raw map[string]sql.NullString) {
	r.id = id
	r.exists = true
	r.raw = maps.Clone(raw)
	if r.raw == nil {
		r.raw = make(map[string]sql.NullString)
	}
	clear(r.decoded)
	clear(r.dirty)
}

// MarkPersisted records a successful write under id and clears the dirty
// set. Cached decoded values are kept.
func (r *Record) MarkPersisted(id int64) {
	r.id = id
	r.exists = true
	clear(r.dirty)
}

func (r *Record) store(name string, stored sql.NullString) {
	r.raw[name] = stored
	r.dirty[name] = struct{}{}
	delete(r.decoded, name)
}

func (r *Record) encode(col Column, v any) (sql.NullString, error) {
	var (
		stored sql.NullString
		err    error
	)

	if col.Encrypted {
		stored, err = r.caster.Encode(col.Kind, v)
	} else if v != nil {
		var text string
		text, err = cast.Serialize(cast.KindPlain, v)
		stored = sql.NullString{String: text, Valid: err == nil}
	}
	if err != nil {
		return sql.NullString{}, fmt.Errorf("%s.%s: %w", r.def.Table, col.Name, err)
	}

	if col.Size > 0 && stored.Valid && utf8.RuneCountInString(stored.String) > col.Size {
		return sql.NullString{}, fmt.Errorf("%w: %s.%s allows %d characters", ErrValueTooLong, r.def.Table, col.Name, col.Size)
	}

	return stored, nil
}
