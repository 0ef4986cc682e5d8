// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package chacha encrypts files with ChaCha20-Poly1305. Sealed output is the
// 12-byte nonce followed by the ciphertext and tag.
package chacha

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/toeirei/rcli/internal/security"
	"golang.org/x/crypto/chacha20poly1305"
)

// KeyFileName is the file the generate command writes.
const KeyFileName = "chacha20.key"

var (
	// ErrKeySize is returned for keys that are not exactly 32 bytes.
	ErrKeySize = errors.New("chacha20 key must be 32 bytes")
	// ErrCiphertext is returned when sealed data is truncated or fails authentication.
	ErrCiphertext = errors.New("ciphertext is corrupt or was sealed with another key")
)

// randReader is swapped by tests.
var randReader io.Reader = rand.Reader

// GenerateKey returns a fresh random key.
func GenerateKey() (security.Secret, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(randReader, key); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return security.Secret(key), nil
}

// LoadKey reads a key file holding exactly 32 bytes.
func LoadKey(path string) (security.Secret, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	if len(data) != chacha20poly1305.KeySize {
		clear(data)
		return nil, fmt.Errorf("%w: %s holds %d bytes", ErrKeySize, path, len(data))
	}
	return security.Secret(data), nil
}

// Encrypt seals plain under key with a random nonce.
func Encrypt(plain, key []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plain, nil), nil
}

// Decrypt opens data produced by Encrypt.
func Decrypt(sealed, key []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize()+aead.Overhead() {
		return nil, fmt.Errorf("%w: %d bytes is shorter than nonce and tag", ErrCiphertext, len(sealed))
	}
	nonce, body := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCiphertext, err)
	}
	return plain, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrKeySize, len(key))
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("init chacha20poly1305: %w", err)
	}
	return aead, nil
}
