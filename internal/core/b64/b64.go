// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package b64 implements the base64 codec behind the base64 command and the
// text encoding of signatures (URL-safe alphabet, no padding).
package b64

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Format selects the base64 alphabet.
type Format int

const (
	Standard Format = iota
	URLSafe
)

// ErrInvalidFormat is returned by ParseFormat for unknown names.
var ErrInvalidFormat = errors.New("invalid base64 format")

// ParseFormat maps "standard" and "urlsafe" to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "standard":
		return Standard, nil
	case "urlsafe":
		return URLSafe, nil
	default:
		return 0, fmt.Errorf("%w: %q (want standard or urlsafe)", ErrInvalidFormat, s)
	}
}

func (f Format) String() string {
	if f == URLSafe {
		return "urlsafe"
	}
	return "standard"
}

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }

func (f Format) encoding() *base64.Encoding {
	if f == URLSafe {
		return base64.RawURLEncoding
	}
	return base64.StdEncoding
}

// Encode returns data encoded with the alphabet of f.
func Encode(data []byte, f Format) string {
	return f.encoding().EncodeToString(data)
}

// Decode decodes text with the alphabet of f. Surrounding whitespace, such
// as the newline left by `echo`, is ignored.
func Decode(text string, f Format) ([]byte, error) {
	out, err := f.encoding().DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("decode %s base64: %w", f, err)
	}
	return out, nil
}

// EncodeSignature renders raw signature bytes for the terminal.
func EncodeSignature(sig []byte) string { return Encode(sig, URLSafe) }

// DecodeSignature parses a signature printed by EncodeSignature.
func DecodeSignature(text string) ([]byte, error) { return Decode(text, URLSafe) }
