// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package chacha

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/toeirei/rcli/internal/testutil"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	key, err := GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	for _, plain := range [][]byte{nil, []byte("x"), bytes.Repeat([]byte("abc"), 5000)} {
		sealed, err := Encrypt(plain, key)
		if err != nil {
			t.Fatalf("Encrypt: %v", err)
		}
		if len(sealed) != 12+len(plain)+16 {
			t.Fatalf("unexpected sealed length %d for %d plain bytes", len(sealed), len(plain))
		}
		got, err := Decrypt(sealed, key)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, plain) {
			t.Fatalf("round trip mismatch")
		}
	}
}

func TestEncrypt_FreshNonce(t *testing.T) {
	key, _ := GenerateKey()
	a, _ := Encrypt([]byte("same"), key)
	b, _ := Encrypt([]byte("same"), key)
	if bytes.Equal(a, b) {
		t.Fatalf("two encryptions produced identical output")
	}
}

func TestDecrypt_Failures(t *testing.T) {
	key, _ := GenerateKey()
	other, _ := GenerateKey()
	sealed, _ := Encrypt([]byte("secret"), key)

	if _, err := Decrypt(sealed, other); !errors.Is(err, ErrCiphertext) {
		t.Fatalf("wrong key: expected ErrCiphertext, got %v", err)
	}
	tampered := append([]byte{}, sealed...)
	tampered[len(tampered)-1] ^= 1
	if _, err := Decrypt(tampered, key); !errors.Is(err, ErrCiphertext) {
		t.Fatalf("tampered: expected ErrCiphertext, got %v", err)
	}
	if _, err := Decrypt(sealed[:10], key); !errors.Is(err, ErrCiphertext) {
		t.Fatalf("truncated: expected ErrCiphertext, got %v", err)
	}
	if _, err := Decrypt(sealed, make([]byte, 16)); !errors.Is(err, ErrKeySize) {
		t.Fatalf("short key: expected ErrKeySize, got %v", err)
	}
}

func TestLoadKey(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, KeyFileName)
	key, _ := GenerateKey()
	if err := os.WriteFile(good, key, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	loaded, err := LoadKey(good)
	if err != nil {
		t.Fatalf("LoadKey: %v", err)
	}
	if !bytes.Equal(loaded, key) {
		t.Fatalf("loaded key differs")
	}

	bad := filepath.Join(dir, "bad.key")
	_ = os.WriteFile(bad, []byte("short"), 0o600)
	if _, err := LoadKey(bad); !errors.Is(err, ErrKeySize) {
		t.Fatalf("expected ErrKeySize, got %v", err)
	}
	if _, err := LoadKey(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestGenerateKey_RandomFailure(t *testing.T) {
	prev := randReader
	randReader = testutil.FailingReader{}
	defer func() { randReader = prev }()

	if _, err := GenerateKey(); !errors.Is(err, testutil.ErrFailingReader) {
		t.Fatalf("expected the reader error, got %v", err)
	}
	if _, err := Encrypt([]byte("x"), make([]byte, 32)); err == nil {
		t.Fatal("expected Encrypt to fail without a nonce")
	}
}
