// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cast implements encrypted attribute casts: the two-way transform
// between the typed in-memory value of a record field and the ciphertext
// text stored in its column.
//
// A cast is parameterized by a [Kind]. [KindPlain] encrypts the string form
// of the value. The structured kinds ([KindArray], [KindJSON], [KindObject],
// [KindCollection]) first serialize the value to compact JSON and decode it
// back on read into an [OrderedMap], an [Object] or a [Collection].
//
// The encryption service is injected into [NewEncrypted]; the package keeps
// no global state and a cast is safe for concurrent use.
package cast
