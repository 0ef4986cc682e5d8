// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package genpass generates random passwords from a fixed set of character
// classes. Look-alike glyphs (l, I, O, 0) are left out of the alphabets.
package genpass

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

const (
	Lower  = "abcdefghijkmnopqrstuvwxyz"
	Upper  = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	Number = "123456789"
	Symbol = "!@#$%^&*_"
)

// DefaultLength is used by the genpass command when no length is configured.
const DefaultLength = 16

var (
	// ErrNoClasses is returned when every character class is disabled.
	ErrNoClasses = errors.New("at least one character class must be enabled")
	// ErrTooShort is returned when the requested length cannot hold one
	// character of every enabled class.
	ErrTooShort = errors.New("password length too short")
)

// Options controls which character classes a password contains.
// The zero value enables every class.
type Options struct {
	Length   int
	NoUpper  bool
	NoLower  bool
	NoNumber bool
	NoSymbol bool
}

// randReader is swapped by tests.
var randReader io.Reader = rand.Reader

// Generate returns a password of opts.Length characters containing at least
// one character of every enabled class, in random order.
func Generate(opts Options) (string, error) {
	var classes []string
	if !opts.NoLower {
		classes = append(classes, Lower)
	}
	if !opts.NoUpper {
		classes = append(classes, Upper)
	}
	if !opts.NoNumber {
		classes = append(classes, Number)
	}
	if !opts.NoSymbol {
		classes = append(classes, Symbol)
	}
	if len(classes) == 0 {
		return "", ErrNoClasses
	}
	if opts.Length < len(classes) {
		return "", fmt.Errorf("%w: need at least %d characters, got %d", ErrTooShort, len(classes), opts.Length)
	}

	var all []byte
	password := make([]byte, 0, opts.Length)
	for _, class := range classes {
		all = append(all, class...)
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}
	for len(password) < opts.Length {
		c, err := pick(string(all))
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}
	if err := shuffle(password); err != nil {
		return "", err
	}
	return string(password), nil
}

func pick(alphabet string) (byte, error) {
	n, err := randIntn(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[n], nil
}

// shuffle is a Fisher-Yates shuffle driven by randReader.
func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := randIntn(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

func randIntn(n int) (int, error) {
	v, err := rand.Int(randReader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}
