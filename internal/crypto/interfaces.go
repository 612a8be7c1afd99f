// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/encrypter_mock.go -package=mock

// Encrypter is the string encryption service used by encrypted attribute
// casts. It knows nothing about records, columns or databases: it turns
// plaintext into an opaque ciphertext string and back.
//
// Implementations must be safe for concurrent use.
type Encrypter interface {
	// EncryptString encrypts plaintext and returns a printable ciphertext
	// that can be stored in a text column as-is.
	EncryptString(plaintext string) (string, error)

	// DecryptString reverses EncryptString. It returns an error if the
	// payload is malformed, was tampered with, or was produced with a key
	// the encrypter does not hold.
	DecryptString(ciphertext string) (string, error)
}
