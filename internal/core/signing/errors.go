// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import "errors"

var (
	// ErrFormat is returned for an unknown scheme token.
	ErrFormat = errors.New("unsupported signature format")

	// ErrIO is returned when the input stream or a key file cannot be read.
	ErrIO = errors.New("read failed")

	// ErrKeyFormat is returned when key bytes are missing, too short or do
	// not form a valid key for the scheme.
	ErrKeyFormat = errors.New("invalid key material")

	// ErrDecode is returned when signature text is not valid base64 or has
	// the wrong length for the scheme.
	ErrDecode = errors.New("invalid signature encoding")

	// ErrCrypto wraps failures of the underlying primitives.
	ErrCrypto = errors.New("cryptographic operation failed")
)
