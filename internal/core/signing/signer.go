// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"fmt"
	"io"
)

// TextSigner produces a signature over everything r yields.
type TextSigner interface {
	Sign(r io.Reader) ([]byte, error)
}

// TextVerifier checks sig against everything r yields. A well-formed
// signature that does not match returns (false, nil); structural problems
// are errors.
type TextVerifier interface {
	Verify(r io.Reader, sig []byte) (bool, error)
}

// KeyGenerator creates fresh key material, returned as the blobs to persist
// in KeyFileNames order.
type KeyGenerator func() ([][]byte, error)

var (
	_ TextSigner   = (*Blake3)(nil)
	_ TextVerifier = (*Blake3)(nil)
	_ TextSigner   = (*Ed25519Signer)(nil)
	_ TextVerifier = (*Ed25519Verifier)(nil)

	_ KeyGenerator = GenerateBlake3Key
	_ KeyGenerator = GenerateEd25519Keys
)

func readMessage(r io.Reader) ([]byte, error) {
	msg, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: message: %w", ErrIO, err)
	}
	return msg, nil
}
