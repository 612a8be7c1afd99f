// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cast

import "errors"

// Sentinel errors returned by casts. Decryption and JSON failures are kept
// apart so callers can tell a wrong key from a corrupted document.
var (
	// ErrEncryptionFailed is returned when the encrypter rejects a value on
	// write. Nothing is stored for the field.
	ErrEncryptionFailed = errors.New("encrypted cast: encryption failed")

	// ErrDecryptionFailed is returned when the encrypter cannot decrypt the
	// stored ciphertext on read.
	ErrDecryptionFailed = errors.New("encrypted cast: decryption failed")

	// ErrMalformedJSON is returned when decrypted text of a structured kind
	// is not valid JSON.
	ErrMalformedJSON = errors.New("encrypted cast: malformed json")

	// ErrUnsupportedValue is returned when a value cannot be serialized for
	// the requested kind.
	ErrUnsupportedValue = errors.New("encrypted cast: unsupported value")

	// ErrUnknownKind is returned for a Kind outside the declared set.
	ErrUnknownKind = errors.New("encrypted cast: unknown kind")
)
