// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package model

import "errors"

var (
	// ErrUnknownAttribute is returned when a record is asked to set or get
	// a name that is not a column of its definition.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrValueTooLong is returned when the stored form of a value exceeds
	// the column size.
	ErrValueTooLong = errors.New("value too long for column")

	// ErrUnexpectedType is returned by the typed accessors when the decoded
	// value is of a different type.
	ErrUnexpectedType = errors.New("unexpected attribute type")
)
