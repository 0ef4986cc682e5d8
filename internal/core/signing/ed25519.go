// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"io"

	"filippo.io/edwards25519"
)

const (
	// Ed25519SeedSize is the length of a signing key file.
	Ed25519SeedSize = ed25519.SeedSize
	// Ed25519PublicKeySize is the length of a verifying key file.
	Ed25519PublicKeySize = ed25519.PublicKeySize
	// Ed25519SignatureSize is the length of an Ed25519 signature.
	Ed25519SignatureSize = ed25519.SignatureSize
)

// randReader is swapped by tests.
var randReader io.Reader = rand.Reader

// Ed25519Signer holds the private half of an Ed25519 key pair.
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

// Ed25519Verifier holds the public half of an Ed25519 key pair.
type Ed25519Verifier struct {
	key ed25519.PublicKey
}

// NewEd25519Signer derives a signer from a 32-byte seed.
func NewEd25519Signer(seed []byte) (*Ed25519Signer, error) {
	if len(seed) != Ed25519SeedSize {
		return nil, fmt.Errorf("%w: ed25519 seed must be %d bytes, got %d", ErrKeyFormat, Ed25519SeedSize, len(seed))
	}
	return &Ed25519Signer{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// NewEd25519Verifier accepts a 32-byte public key that decodes to a point on
// the curve.
func NewEd25519Verifier(pub []byte) (*Ed25519Verifier, error) {
	if len(pub) != Ed25519PublicKeySize {
		return nil, fmt.Errorf("%w: ed25519 public key must be %d bytes, got %d", ErrKeyFormat, Ed25519PublicKeySize, len(pub))
	}
	if _, err := new(edwards25519.Point).SetBytes(pub); err != nil {
		return nil, fmt.Errorf("%w: ed25519 public key is not a curve point: %w", ErrKeyFormat, err)
	}
	key := make(ed25519.PublicKey, Ed25519PublicKeySize)
	copy(key, pub)
	return &Ed25519Verifier{key: key}, nil
}

// LoadEd25519Signer reads a seed file; the first 32 bytes are the seed.
func LoadEd25519Signer(path string) (*Ed25519Signer, error) {
	data, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	defer clear(data)
	if len(data) < Ed25519SeedSize {
		return nil, fmt.Errorf("%w: %s holds %d bytes, ed25519 seed needs %d", ErrKeyFormat, path, len(data), Ed25519SeedSize)
	}
	return NewEd25519Signer(data[:Ed25519SeedSize])
}

// LoadEd25519Verifier reads a public key file; the first 32 bytes are the key.
func LoadEd25519Verifier(path string) (*Ed25519Verifier, error) {
	data, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) < Ed25519PublicKeySize {
		return nil, fmt.Errorf("%w: %s holds %d bytes, ed25519 public key needs %d", ErrKeyFormat, path, len(data), Ed25519PublicKeySize)
	}
	return NewEd25519Verifier(data[:Ed25519PublicKeySize])
}

// Sign returns the 64-byte Ed25519 signature of the stream.
func (s *Ed25519Signer) Sign(r io.Reader) ([]byte, error) {
	msg, err := readMessage(r)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(s.key, msg), nil
}

// Zero wipes the private key.
func (s *Ed25519Signer) Zero() { clear(s.key) }

// Verify checks a 64-byte signature. Any other length is an ErrDecode error;
// a signature that does not match is (false, nil).
func (v *Ed25519Verifier) Verify(r io.Reader, sig []byte) (bool, error) {
	if len(sig) != Ed25519SignatureSize {
		return false, fmt.Errorf("%w: ed25519 signature must be %d bytes, got %d", ErrDecode, Ed25519SignatureSize, len(sig))
	}
	msg, err := readMessage(r)
	if err != nil {
		return false, err
	}
	return ed25519.Verify(v.key, msg, sig), nil
}

// GenerateEd25519Keys returns [seed, public key], 32 bytes each.
func GenerateEd25519Keys() ([][]byte, error) {
	pub, priv, err := ed25519.GenerateKey(randReader)
	if err != nil {
		return nil, fmt.Errorf("%w: generate ed25519 key: %w", ErrCrypto, err)
	}
	seed := make([]byte, Ed25519SeedSize)
	copy(seed, priv.Seed())
	clear(priv)
	return [][]byte{seed, []byte(pub)}, nil
}
