// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Cipher names accepted by [NewEncrypter]. The names and the payload layout
// are compatible with the Laravel encrypter, so values written by either
// side can be read by the other given the same key.
const (
	AES128CBC = "aes-128-cbc"
	AES256CBC = "aes-256-cbc"
	AES128GCM = "aes-128-gcm"
	AES256GCM = "aes-256-gcm"
)

// SupportedCiphers lists every cipher name understood by this package.
var SupportedCiphers = []string{AES128CBC, AES256CBC, AES128GCM, AES256GCM}

const (
	cbcIVSize = aes.BlockSize
	gcmIVSize = 12
	gcmTagLen = 16
)

// payload is the JSON envelope that is base64-encoded into the ciphertext
// string. Field order matters for compatibility.
type payload struct {
	IV    string `json:"iv"`
	Value string `json:"value"`
	MAC   string `json:"mac"`
	Tag   string `json:"tag"`
}

// encrypter is the private implementation of [Encrypter].
type encrypter struct {
	cipher string
	// keys[0] encrypts; every key is tried in order when decrypting.
	keys [][]byte
}

// NewEncrypter constructs an [Encrypter] for the given cipher. key is used
// for encryption and decryption; previousKeys are only used for decryption,
// which lets values written before a key rotation stay readable.
//
// Returns [ErrUnsupportedCipher] or [ErrInvalidKeySize] on bad input.
func NewEncrypter(key []byte, cipherName string, previousKeys ...[]byte) (Encrypter, error) {
	if !slices.Contains(SupportedCiphers, cipherName) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCipher, cipherName)
	}

	keys := make([][]byte, 0, len(previousKeys)+1)
	for _, k := range append([][]byte{key}, previousKeys...) {
		if len(k) != KeySize(cipherName) {
			return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrInvalidKeySize, cipherName, KeySize(cipherName), len(k))
		}
		keys = append(keys, slices.Clone(k))
	}

	return &encrypter{cipher: cipherName, keys: keys}, nil
}

// KeySize returns the key length in bytes required by cipherName, or 0 if
// the cipher is unknown.
func KeySize(cipherName string) int {
	switch cipherName {
	case AES128CBC, AES128GCM:
		return 16
	case AES256CBC, AES256GCM:
		return 32
	}
	return 0
}

func isAEAD(cipherName string) bool {
	return cipherName == AES128GCM || cipherName == AES256GCM
}

// EncryptString implements [Encrypter].
func (e *encrypter) EncryptString(plaintext string) (string, error) {
	var (
		p   payload
		err error
	)

	if isAEAD(e.cipher) {
		p, err = sealGCM(e.keys[0], []byte(plaintext))
	} else {
		p, err = sealCBC(e.keys[0], []byte(plaintext))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncryptionFailed, err)
	}

	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecryptString implements [Encrypter]. Every configured key is tried in
// order, current key first.
func (e *encrypter) DecryptString(ciphertext string) (string, error) {
	p, err := e.parsePayload(ciphertext)
	if err != nil {
		return "", err
	}

	if !isAEAD(e.cipher) {
		macMatched := false
		for _, key := range e.keys {
			if !validMAC(key, p) {
				continue
			}
			macMatched = true
			if plain, openErr := openCBC(key, p); openErr == nil {
				return string(plain), nil
			}
		}
		if !macMatched {
			return "", ErrInvalidMAC
		}
		return "", ErrDecryptionFailed
	}

	for _, key := range e.keys {
		if plain, openErr := openGCM(key, p); openErr == nil {
			return string(plain), nil
		}
	}

	return "", ErrDecryptionFailed
}

// parsePayload decodes the outer base64 and JSON layers and validates the
// iv and tag lengths for the configured cipher.
func (e *encrypter) parsePayload(ciphertext string) (payload, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return payload{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	var p payload
	if err = json.Unmarshal(raw, &p); err != nil {
		return payload{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	iv, err := base64.StdEncoding.DecodeString(p.IV)
	if err != nil {
		return payload{}, ErrInvalidPayload
	}

	if isAEAD(e.cipher) {
		tag, tagErr := base64.StdEncoding.DecodeString(p.Tag)
		if len(iv) != gcmIVSize || tagErr != nil || len(tag) != gcmTagLen {
			return payload{}, ErrInvalidPayload
		}
		return p, nil
	}

	// An empty GCM plaintext seals to the tag alone; CBC always pads to a block.
	if len(iv) != cbcIVSize || p.Tag != "" || p.Value == "" {
		return payload{}, ErrInvalidPayload
	}

	return p, nil
}

func sealCBC(key, plaintext []byte) (payload, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return payload{}, err
	}

	iv := make([]byte, cbcIVSize)
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return payload{}, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	p := payload{
		IV:    base64.StdEncoding.EncodeToString(iv),
		Value: base64.StdEncoding.EncodeToString(out),
	}
	p.MAC = computeMAC(key, p.IV, p.Value)

	return p, nil
}

func openCBC(key []byte, p payload) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv, _ := base64.StdEncoding.DecodeString(p.IV)
	value, err := base64.StdEncoding.DecodeString(p.Value)
	if err != nil {
		return nil, err
	}
	if len(value) == 0 || len(value)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("ciphertext is not a multiple of the block size")
	}

	out := make([]byte, len(value))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, value)

	return pkcs7Unpad(out, aes.BlockSize)
}

func sealGCM(key, plaintext []byte) (payload, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return payload{}, err
	}

	iv := make([]byte, gcmIVSize)
	if _, err = io.ReadFull(rand.Reader, iv); err != nil {
		return payload{}, err
	}

	// Seal appends the tag to the ciphertext; the payload keeps them apart.
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	value, tag := sealed[:len(sealed)-gcmTagLen], sealed[len(sealed)-gcmTagLen:]

	return payload{
		IV:    base64.StdEncoding.EncodeToString(iv),
		Value: base64.StdEncoding.EncodeToString(value),
		Tag:   base64.StdEncoding.EncodeToString(tag),
	}, nil
}

func openGCM(key []byte, p payload) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	iv, _ := base64.StdEncoding.DecodeString(p.IV)
	tag, _ := base64.StdEncoding.DecodeString(p.Tag)
	value, err := base64.StdEncoding.DecodeString(p.Value)
	if err != nil {
		return nil, err
	}

	return gcm.Open(nil, iv, append(value, tag...), nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, gcmIVSize)
}

// computeMAC returns hex(HMAC-SHA256(key, iv || value)) over the base64
// forms of iv and value.
func computeMAC(key []byte, iv, value string) string {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(iv))
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil))
}

func validMAC(key []byte, p payload) bool {
	expected, err := hex.DecodeString(computeMAC(key, p.IV, p.Value))
	if err != nil {
		return false
	}
	given, err := hex.DecodeString(p.MAC)
	if err != nil {
		return false
	}
	return hmac.Equal(expected, given)
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	for range n {
		out = append(out, byte(n))
	}
	return out
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty block")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
