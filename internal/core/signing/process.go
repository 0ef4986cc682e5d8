// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"fmt"

	"github.com/toeirei/rcli/internal/core/b64"
	"github.com/toeirei/rcli/internal/core/input"
	"github.com/toeirei/rcli/internal/logging"
)

// ProcessSign signs the stream named by in ("-" for stdin) with the key at
// keyPath and returns the raw signature.
func ProcessSign(in, keyPath string, scheme Scheme) ([]byte, error) {
	r, err := input.Open(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer r.Close()

	signer, err := LoadSigner(scheme, keyPath)
	if err != nil {
		return nil, err
	}
	defer wipe(signer)

	logging.Debugf("signing %s with %s key %s", input.Name(in), scheme, keyPath)
	return signer.Sign(r)
}

// ProcessVerify checks encodedSig (URL-safe base64, unpadded) against the
// stream named by in using the key at keyPath.
func ProcessVerify(in, keyPath, encodedSig string, scheme Scheme) (bool, error) {
	r, err := input.Open(in)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer r.Close()

	sig, err := b64.DecodeSignature(encodedSig)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	verifier, err := LoadVerifier(scheme, keyPath)
	if err != nil {
		return false, err
	}
	defer wipe(verifier)

	logging.Debugf("verifying %s with %s key %s", input.Name(in), scheme, keyPath)
	return verifier.Verify(r, sig)
}

// ProcessGenerateKeys returns fresh key blobs for scheme, ordered as
// KeyFileNames(scheme). Nothing is written to disk.
func ProcessGenerateKeys(scheme Scheme) ([][]byte, error) {
	gen, err := generator(scheme)
	if err != nil {
		return nil, err
	}
	return gen()
}
