// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package security holds key material in a redacting wrapper so that keys,
// seeds and generated passwords never end up in logs by accident.
package security

import (
	"encoding/json"
	"fmt"
	"io"
)

const redacted = "[SECRET]"

// Secret is a thin wrapper around a byte slice holding sensitive material
// (keyed-hash keys, signing seeds, cipher keys). Formatting and marshaling
// always produce a placeholder.
type Secret []byte

// String redacts the secret for fmt.Print* convenience.
func (s Secret) String() string { return redacted }

// Format implements fmt.Formatter so `%v`, `%x`, `%#v` and friends are redacted too.
func (s Secret) Format(f fmt.State, c rune) {
	_, _ = io.WriteString(f, redacted)
}

// MarshalJSON redacts secrets in JSON output.
func (s Secret) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }

// MarshalText redacts secrets for text encoding (YAML, TOML, logfmt).
func (s Secret) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// Zero overwrites the underlying byte slice with zeros.
func (s *Secret) Zero() {
	if s == nil || *s == nil {
		return
	}
	clear(*s)
}

// FromBytes creates a Secret holding a copy of in.
func FromBytes(in []byte) Secret {
	out := make([]byte, len(in))
	copy(out, in)
	return Secret(out)
}
