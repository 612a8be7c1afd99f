// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

// Sentinel errors returned by the encrypter and key helpers. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrUnsupportedCipher is returned when a cipher name is not one of the
	// values listed in [SupportedCiphers].
	ErrUnsupportedCipher = errors.New("unsupported cipher")

	// ErrInvalidKeySize is returned when a key length does not match the
	// length required by the configured cipher.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidKey is returned when a key string cannot be parsed.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidPayload is returned when a ciphertext is not a well-formed
	// payload (bad base64, bad JSON, wrong iv or tag length).
	ErrInvalidPayload = errors.New("the payload is invalid")

	// ErrInvalidMAC is returned when the MAC of a CBC payload does not match
	// any of the configured keys.
	ErrInvalidMAC = errors.New("the MAC is invalid")

	// ErrEncryptionFailed is returned when the value could not be encrypted.
	ErrEncryptionFailed = errors.New("could not encrypt the data")

	// ErrDecryptionFailed is returned when none of the configured keys can
	// open the payload.
	ErrDecryptionFailed = errors.New("could not decrypt the data")
)
