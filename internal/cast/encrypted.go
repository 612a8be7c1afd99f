// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cast

import (
	"database/sql"
	"fmt"

	"github.com/lhwgwg/framework/internal/crypto"
)

// Encrypted is the encrypted attribute cast. It holds no state besides the
// injected encrypter.
type Encrypted struct {
	encrypter crypto.Encrypter
}

// NewEncrypted returns a cast that encrypts with enc.
func NewEncrypted(enc crypto.Encrypter) *Encrypted {
	return &Encrypted{encrypter: enc}
}

// Encode serializes v for kind and encrypts the result. A nil value encodes
// to SQL NULL without calling the encrypter.
//
// Errors wrap [ErrUnsupportedValue], [ErrUnknownKind] or
// [ErrEncryptionFailed]; on error nothing should be persisted.
func (c *Encrypted) Encode(kind Kind, v any) (sql.NullString, error) {
	if !kind.IsValid() {
		return sql.NullString{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if isNil(v) {
		return sql.NullString{}, nil
	}

	text, err := Serialize(kind, v)
	if err != nil {
		return sql.NullString{}, err
	}

	ciphertext, err := c.encrypter.EncryptString(text)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	return sql.NullString{String: ciphertext, Valid: true}, nil
}

// Decode decrypts raw and deserializes it for kind. SQL NULL decodes to nil
// without calling the encrypter.
//
// Errors wrap [ErrDecryptionFailed], [ErrMalformedJSON] or [ErrUnknownKind].
func (c *Encrypted) Decode(kind Kind, raw sql.NullString) (any, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if !raw.Valid {
		return nil, nil
	}

	text, err := c.encrypter.DecryptString(raw.String)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return Deserialize(kind, text)
}
