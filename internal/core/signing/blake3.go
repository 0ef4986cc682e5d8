// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/toeirei/rcli/internal/core/genpass"
	"github.com/toeirei/rcli/internal/logging"
	"github.com/toeirei/rcli/internal/security"
	"github.com/zeebo/blake3"
)

const (
	// Blake3KeySize is the length of a BLAKE3 key.
	Blake3KeySize = 32
	// Blake3TagSize is the length of a BLAKE3 keyed-hash tag.
	Blake3TagSize = 32
)

// Blake3 signs and verifies with a BLAKE3 keyed hash. The same key is used
// in both directions.
type Blake3 struct {
	key security.Secret
}

// NewBlake3 returns a Blake3 for a key of exactly Blake3KeySize bytes.
// The key is copied.
func NewBlake3(key []byte) (*Blake3, error) {
	if len(key) != Blake3KeySize {
		return nil, fmt.Errorf("%w: blake3 key must be %d bytes, got %d", ErrKeyFormat, Blake3KeySize, len(key))
	}
	return &Blake3{key: security.FromBytes(key)}, nil
}

// LoadBlake3 reads a key file. The first Blake3KeySize bytes are the key;
// shorter files are rejected. Longer files are accepted with a warning
// because editors commonly append a newline.
func LoadBlake3(path string) (*Blake3, error) {
	data, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	defer clear(data)
	if len(data) < Blake3KeySize {
		return nil, fmt.Errorf("%w: %s holds %d bytes, blake3 needs %d", ErrKeyFormat, path, len(data), Blake3KeySize)
	}
	if len(data) > Blake3KeySize {
		logging.Warnf("key file %s holds %d bytes; only the first %d are used", path, len(data), Blake3KeySize)
	}
	return NewBlake3(data[:Blake3KeySize])
}

// Sign returns the 32-byte keyed hash of the stream.
func (b *Blake3) Sign(r io.Reader) ([]byte, error) {
	h, err := blake3.NewKeyed(b.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCrypto, err)
	}
	if _, err := io.Copy(h, r); err != nil {
		return nil, fmt.Errorf("%w: message: %w", ErrIO, err)
	}
	return h.Sum(nil), nil
}

// Verify recomputes the keyed hash and compares it in constant time.
func (b *Blake3) Verify(r io.Reader, sig []byte) (bool, error) {
	if len(sig) != Blake3TagSize {
		return false, fmt.Errorf("%w: blake3 signature must be %d bytes, got %d", ErrDecode, Blake3TagSize, len(sig))
	}
	tag, err := b.Sign(r)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(tag, sig) == 1, nil
}

// Zero wipes the key.
func (b *Blake3) Zero() { b.key.Zero() }

// GenerateBlake3Key returns one key made of a 32-character password drawn
// from every genpass class. Its key space is that of the password alphabet,
// not the full 256 bits; keys stay printable so they can be pasted.
func GenerateBlake3Key() ([][]byte, error) {
	pw, err := genpass.Generate(genpass.Options{Length: Blake3KeySize})
	if err != nil {
		return nil, fmt.Errorf("generate blake3 key: %w", err)
	}
	return [][]byte{[]byte(pw)}, nil
}
