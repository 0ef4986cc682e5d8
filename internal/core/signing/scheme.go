// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import "fmt"

// Scheme selects the signing primitive.
type Scheme int

const (
	// Blake3Scheme is the BLAKE3 keyed hash.
	Blake3Scheme Scheme = iota
	// Ed25519Scheme is the Ed25519 digital signature.
	Ed25519Scheme
)

// Schemes lists every supported scheme in token order.
var Schemes = []Scheme{Blake3Scheme, Ed25519Scheme}

// ParseScheme maps a token to a Scheme. Matching is exact and case sensitive.
func ParseScheme(token string) (Scheme, error) {
	switch token {
	case "blake3":
		return Blake3Scheme, nil
	case "ed25519":
		return Ed25519Scheme, nil
	default:
		return 0, fmt.Errorf("%w: %q (want blake3 or ed25519)", ErrFormat, token)
	}
}

func (s Scheme) String() string {
	switch s {
	case Blake3Scheme:
		return "blake3"
	case Ed25519Scheme:
		return "ed25519"
	default:
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
}

// Set implements pflag.Value.
func (s *Scheme) Set(token string) error {
	v, err := ParseScheme(token)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Type implements pflag.Value.
func (s *Scheme) Type() string { return "format" }

// SignatureSize is the fixed length of signatures produced by s.
func (s Scheme) SignatureSize() int {
	if s == Ed25519Scheme {
		return Ed25519SignatureSize
	}
	return Blake3TagSize
}

// KeyFileNames returns the file names the generate command writes, in the
// order ProcessGenerateKeys returns the key blobs.
func KeyFileNames(s Scheme) []string {
	switch s {
	case Blake3Scheme:
		return []string{"blake3.txt"}
	case Ed25519Scheme:
		return []string{"ed25519.sk", "ed25519.pk"}
	default:
		return nil
	}
}

// SecretKeyIndex reports whether the i-th generated key blob is secret.
func SecretKeyIndex(s Scheme, i int) bool {
	return s == Blake3Scheme || i == 0
}
