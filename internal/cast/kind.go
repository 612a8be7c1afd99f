// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cast

import "fmt"

// Kind selects how an encrypted field is serialized before encryption and
// what type it is decoded into after decryption.
type Kind uint8

const (
	// KindPlain stores the string form of the value.
	KindPlain Kind = iota

	// KindArray stores JSON and decodes objects into *OrderedMap.
	KindArray

	// KindJSON behaves exactly like KindArray.
	KindJSON

	// KindObject stores JSON and decodes objects into *Object.
	KindObject

	// KindCollection stores JSON and decodes into *Collection.
	KindCollection
)

var kindNames = [...]string{
	KindPlain:      "encrypted",
	KindArray:      "encrypted:array",
	KindJSON:       "encrypted:json",
	KindObject:     "encrypted:object",
	KindCollection: "encrypted:collection",
}

// String returns the cast declaration name, e.g. "encrypted:array".
func (k Kind) String() string {
	if !k.IsValid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// IsValid reports whether k is one of the declared kinds.
func (k Kind) IsValid() bool {
	return int(k) < len(kindNames)
}

// Structured reports whether values of this kind go through JSON.
func (k Kind) Structured() bool {
	return k.IsValid() && k != KindPlain
}
