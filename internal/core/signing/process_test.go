// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package signing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/toeirei/rcli/internal/core/b64"
)

// keyFiles generates keys for scheme and writes them under KeyFileNames.
// It returns the signing key path and the verifying key path.
func keyFiles(t *testing.T, scheme Scheme) (string, string) {
	t.Helper()
	dir := t.TempDir()
	keys, err := ProcessGenerateKeys(scheme)
	if err != nil {
		t.Fatalf("generate %s: %v", scheme, err)
	}
	var paths []string
	for i, name := range KeyFileNames(scheme) {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, keys[i], 0o600); err != nil {
			t.Fatalf("write key: %v", err)
		}
		paths = append(paths, p)
	}
	if len(paths) == 1 {
		return paths[0], paths[0]
	}
	return paths[0], paths[1]
}

func TestProcessSignVerify_RoundTrip(t *testing.T) {
	for _, scheme := range Schemes {
		t.Run(scheme.String(), func(t *testing.T) {
			sk, vk := keyFiles(t, scheme)
			msg := writeFile(t, "msg.txt", []byte("the quick brown fox"))
			tampered := writeFile(t, "tampered.txt", []byte("the quick brown fax"))

			sig, err := ProcessSign(msg, sk, scheme)
			if err != nil {
				t.Fatalf("ProcessSign: %v", err)
			}
			if len(sig) != scheme.SignatureSize() {
				t.Fatalf("expected %d-byte signature, got %d", scheme.SignatureSize(), len(sig))
			}
			encoded := b64.EncodeSignature(sig)

			ok, err := ProcessVerify(msg, vk, encoded, scheme)
			if err != nil || !ok {
				t.Fatalf("ProcessVerify = %v, %v; want true", ok, err)
			}
			ok, err = ProcessVerify(tampered, vk, encoded, scheme)
			if err != nil || ok {
				t.Fatalf("ProcessVerify(tampered) = %v, %v; want false", ok, err)
			}
			// A trailing newline from copy/paste is tolerated.
			ok, err = ProcessVerify(msg, vk, encoded+"\n", scheme)
			if err != nil || !ok {
				t.Fatalf("ProcessVerify(newline) = %v, %v; want true", ok, err)
			}
		})
	}
}

func TestProcessVerify_MalformedSignature(t *testing.T) {
	sk, _ := keyFiles(t, Blake3Scheme)
	msg := writeFile(t, "msg.txt", []byte("m"))
	_, err := ProcessVerify(msg, sk, "*** not base64 ***", Blake3Scheme)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestProcessVerify_WrongLengthSignature(t *testing.T) {
	_, vk := keyFiles(t, Ed25519Scheme)
	msg := writeFile(t, "msg.txt", []byte("m"))
	_, err := ProcessVerify(msg, vk, b64.EncodeSignature(make([]byte, 32)), Ed25519Scheme)
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestProcess_MissingInput(t *testing.T) {
	sk, _ := keyFiles(t, Blake3Scheme)
	missing := filepath.Join(t.TempDir(), "missing.txt")
	if _, err := ProcessSign(missing, sk, Blake3Scheme); !errors.Is(err, ErrIO) {
		t.Fatalf("ProcessSign: expected ErrIO, got %v", err)
	}
	if _, err := ProcessVerify(missing, sk, "AAAA", Blake3Scheme); !errors.Is(err, ErrIO) {
		t.Fatalf("ProcessVerify: expected ErrIO, got %v", err)
	}
}

func TestProcessSign_ShortKey(t *testing.T) {
	key := writeFile(t, "short.key", []byte("too short"))
	msg := writeFile(t, "msg.txt", []byte("m"))
	if _, err := ProcessSign(msg, key, Blake3Scheme); !errors.Is(err, ErrKeyFormat) {
		t.Fatalf("expected ErrKeyFormat, got %v", err)
	}
}

// The seed file must not be accepted as a verifying key by accident: a seed
// is a valid point only by chance, and even then the signature fails.
func TestProcessVerify_SeedAsPublicKey(t *testing.T) {
	sk, _ := keyFiles(t, Ed25519Scheme)
	msg := writeFile(t, "msg.txt", []byte("m"))
	sig, err := ProcessSign(msg, sk, Ed25519Scheme)
	if err != nil {
		t.Fatalf("ProcessSign: %v", err)
	}
	ok, err := ProcessVerify(msg, sk, b64.EncodeSignature(sig), Ed25519Scheme)
	if ok {
		t.Fatalf("seed must not verify as public key")
	}
	if err != nil && !errors.Is(err, ErrKeyFormat) {
		t.Fatalf("unexpected error: %v", err)
	}
}
