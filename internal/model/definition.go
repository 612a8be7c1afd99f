// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package model describes persistable records and the casts applied to
// their columns. A [Definition] is declared once per table; a [Record] is
// one row held in memory, with encrypted columns kept as ciphertext until
// they are read.
package model

import "github.com/lhwgwg/framework/internal/cast"

// Column describes a single stored field.
type Column struct {
	// Name is the column name in the table and the attribute name on the
	// record.
	Name string

	// Encrypted marks the column as cast through [cast.Encrypted] with the
	// sub-kind in Kind. Unencrypted columns store the plain string form.
	Encrypted bool

	// Kind is the encrypted sub-kind; ignored when Encrypted is false.
	Kind cast.Kind

	// Size is the maximum stored length in characters, 0 for unbounded
	// text columns. It is checked against the ciphertext, not the
	// plaintext.
	Size int
}

// Encrypted declares an encrypted column of the given sub-kind.
func Encrypted(name string, kind cast.Kind, size int) Column {
	return Column{Name: name, Encrypted: true, Kind: kind, Size: size}
}

// Text declares a plain, unencrypted text column.
func Text(name string, size int) Column {
	return Column{Name: name, Size: size}
}

// Definition is the static description of a table: its name, its integer
// primary key and its columns in declaration order.
type Definition struct {
	Table      string
	PrimaryKey string
	Columns    []Column
}

// NewDefinition builds a definition with an "id" primary key.
func NewDefinition(table string, columns ...Column) *Definition {
	return &Definition{
		Table:      table,
		PrimaryKey: "id",
		Columns:    columns,
	}
}

// Column returns the column named name.
func (d *Definition) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order, without the
// primary key.
func (d *Definition) ColumnNames() []string {
	names := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		names = append(names, c.Name)
	}
	return names
}
