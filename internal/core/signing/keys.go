// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"fmt"
	"os"
)

func readKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: key file: %w", ErrIO, err)
	}
	return data, nil
}

// LoadSigner loads the signing key for scheme from path.
func LoadSigner(scheme Scheme, path string) (TextSigner, error) {
	switch scheme {
	case Blake3Scheme:
		k, err := LoadBlake3(path)
		if err != nil {
			return nil, err
		}
		return k, nil
	case Ed25519Scheme:
		k, err := LoadEd25519Signer(path)
		if err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, scheme)
	}
}

// LoadVerifier loads the verifying key for scheme from path.
func LoadVerifier(scheme Scheme, path string) (TextVerifier, error) {
	switch scheme {
	case Blake3Scheme:
		k, err := LoadBlake3(path)
		if err != nil {
			return nil, err
		}
		return k, nil
	case Ed25519Scheme:
		k, err := LoadEd25519Verifier(path)
		if err != nil {
			return nil, err
		}
		return k, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, scheme)
	}
}

func generator(scheme Scheme) (KeyGenerator, error) {
	switch scheme {
	case Blake3Scheme:
		return GenerateBlake3Key, nil
	case Ed25519Scheme:
		return GenerateEd25519Keys, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, scheme)
	}
}

// zeroer is implemented by key types holding secret bytes.
type zeroer interface{ Zero() }

func wipe(k any) {
	if z, ok := k.(zeroer); ok {
		z.Zero()
	}
}
