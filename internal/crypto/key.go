// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

// keyPrefix marks a key string whose remainder is the standard base64
// encoding of the raw key bytes.
const keyPrefix = "base64:"

// Argon2id parameters used to stretch passphrase keys. They match the
// OWASP recommendation already used for master-password derivation.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MiB
	argonThreads = 4
)

// GenerateKey returns a new random key for cipherName, encoded as
// "base64:<key>" so it can be pasted into APP_KEY.
func GenerateKey(cipherName string) (string, error) {
	size := KeySize(cipherName)
	if size == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedCipher, cipherName)
	}

	key := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", err
	}

	return keyPrefix + base64.StdEncoding.EncodeToString(key), nil
}

// ParseKey turns a configured key string into raw key bytes for cipherName.
//
// Two forms are accepted:
//   - "base64:<key>": decoded as is; its length must match the cipher;
//   - any other non-empty string: treated as a passphrase and stretched with
//     Argon2id using salt, which must then be non-empty.
func ParseKey(key, salt, cipherName string) ([]byte, error) {
	size := KeySize(cipherName)
	if size == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCipher, cipherName)
	}

	if key == "" {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}

	if encoded, ok := strings.CutPrefix(key, keyPrefix); ok {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		if len(raw) != size {
			return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrInvalidKeySize, cipherName, size, len(raw))
		}
		return raw, nil
	}

	if salt == "" {
		return nil, fmt.Errorf("%w: passphrase keys need a salt", ErrInvalidKey)
	}

	return argon2.IDKey([]byte(key), []byte(salt), argonTime, argonMemory, argonThreads, uint32(size)), nil
}

// ParseKeys parses every key in keys with [ParseKey].
func ParseKeys(keys []string, salt, cipherName string) ([][]byte, error) {
	parsed := make([][]byte, 0, len(keys))
	for i, k := range keys {
		raw, err := ParseKey(k, salt, cipherName)
		if err != nil {
			return nil, fmt.Errorf("key #%d: %w", i, err)
		}
		parsed = append(parsed, raw)
	}
	return parsed, nil
}
