// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/toeirei/rcli/internal/core/signing"
	xssh "golang.org/x/crypto/ssh"
)

// lastLine returns the final non-empty line of out, where the signature is.
func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func TestTextBlake3_GenerateSignVerify(t *testing.T) {
	work := isolateEnv(t)
	mustExecute(t, "text", "generate", "-o", work)

	key := filepath.Join(work, "blake3.txt")
	fi, err := os.Stat(key)
	if err != nil {
		t.Fatalf("key not written: %v", err)
	}
	if fi.Size() != 32 || fi.Mode().Perm() != 0o600 {
		t.Fatalf("unexpected key file: size=%d mode=%v", fi.Size(), fi.Mode().Perm())
	}

	msg := writeTempFile(t, work, "msg.txt", "hello!")
	sig := lastLine(mustExecute(t, "text", "sign", "-i", msg, "-k", key))
	if len(sig) != 43 || strings.ContainsAny(sig, "+/=") {
		t.Fatalf("expected 43 URL-safe characters, got %q", sig)
	}

	out := mustExecute(t, "text", "verify", "-i", msg, "-k", key, "--sig", sig)
	if !strings.Contains(out, "✓ Signature verified") {
		t.Fatalf("expected success message, got %q", out)
	}

	other := writeTempFile(t, work, "other.txt", "hello?")
	out, err = executeCommand(t, "text", "verify", "-i", other, "-k", key, "--sig", sig)
	if !errors.Is(err, ErrNotVerified) {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}
	if !strings.Contains(out, "⚠ Signature not verified") {
		t.Fatalf("expected failure message, got %q", out)
	}
}

func TestTextEd25519_OpenSSHAndFingerprint(t *testing.T) {
	work := isolateEnv(t)
	out := mustExecute(t, "text", "generate", "--format", "ed25519", "-o", work, "--openssh", "--comment", "me@test")
	if !strings.Contains(out, "SHA256:") {
		t.Fatalf("expected fingerprint in output, got %q", out)
	}

	for name, perm := range map[string]os.FileMode{
		"ed25519.sk":     0o600,
		"ed25519.pk":     0o644,
		"id_ed25519":     0o600,
		"id_ed25519.pub": 0o644,
	} {
		fi, err := os.Stat(filepath.Join(work, name))
		if err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
		if fi.Mode().Perm() != perm {
			t.Errorf("%s: expected mode %v, got %v", name, perm, fi.Mode().Perm())
		}
	}

	pubLine, _ := os.ReadFile(filepath.Join(work, "id_ed25519.pub"))
	pk, comment, _, _, err := xssh.ParseAuthorizedKey(pubLine)
	if err != nil {
		t.Fatalf("ParseAuthorizedKey failed: %v", err)
	}
	if comment != "me@test" || !strings.Contains(out, xssh.FingerprintSHA256(pk)) {
		t.Fatalf("fingerprint or comment mismatch: %q", out)
	}
	raw, _ := os.ReadFile(filepath.Join(work, "ed25519.pk"))
	sshPub, ok := pk.(xssh.CryptoPublicKey).CryptoPublicKey().(ed25519.PublicKey)
	if !ok || !bytes.Equal(sshPub, raw) {
		t.Fatal("id_ed25519.pub does not hold the same key as ed25519.pk")
	}

	msg := writeTempFile(t, work, "msg.txt", "")
	sig := lastLine(mustExecute(t, "text", "sign", "--format", "ed25519", "-i", msg, "-k", filepath.Join(work, "ed25519.sk")))
	if len(sig) != 86 {
		t.Fatalf("expected 86 characters, got %d", len(sig))
	}
	mustExecute(t, "text", "verify", "--format", "ed25519", "-i", msg, "-k", filepath.Join(work, "ed25519.pk"), "--sig", sig)
}

func TestTextFormatFromEnvironment(t *testing.T) {
	work := isolateEnv(t)
	t.Setenv("RCLI_TEXT_FORMAT", "ed25519")
	mustExecute(t, "text", "generate", "-o", work)
	if _, err := os.Stat(filepath.Join(work, "ed25519.pk")); err != nil {
		t.Fatalf("expected ed25519 keys from RCLI_TEXT_FORMAT: %v", err)
	}
}

func TestTextGenerate_RefusesOverwrite(t *testing.T) {
	work := isolateEnv(t)
	mustExecute(t, "text", "generate", "-o", work)
	before, _ := os.ReadFile(filepath.Join(work, "blake3.txt"))

	if _, err := executeCommand(t, "text", "generate", "-o", work); err == nil {
		t.Fatal("expected refusal without --force")
	}
	mustExecute(t, "text", "generate", "-o", work, "--force")
	after, _ := os.ReadFile(filepath.Join(work, "blake3.txt"))
	if bytes.Equal(before, after) {
		t.Fatal("--force did not replace the key")
	}
}

func TestTextGenerate_OpenSSHNeedsEd25519(t *testing.T) {
	work := isolateEnv(t)
	if _, err := executeCommand(t, "text", "generate", "-o", work, "--openssh"); err == nil {
		t.Fatal("expected --openssh to be rejected for blake3")
	}
	if _, err := os.Stat(filepath.Join(work, "blake3.txt")); !os.IsNotExist(err) {
		t.Fatal("no key may be written when flags are rejected")
	}
}

func TestTextGenerate_OpenSSHPassphrase(t *testing.T) {
	work := isolateEnv(t)
	mustExecute(t, "text", "generate", "--format", "ed25519", "-o", work, "--openssh", "--passphrase", "hunter2")

	pem, _ := os.ReadFile(filepath.Join(work, "id_ed25519"))
	var missing *xssh.PassphraseMissingError
	if _, err := xssh.ParseRawPrivateKey(pem); !errors.As(err, &missing) {
		t.Fatalf("expected an encrypted key, got %v", err)
	}
	key, err := xssh.ParseRawPrivateKeyWithPassphrase(pem, []byte("hunter2"))
	if err != nil {
		t.Fatalf("ParseRawPrivateKeyWithPassphrase: %v", err)
	}
	var priv ed25519.PrivateKey
	switch k := key.(type) {
	case ed25519.PrivateKey:
		priv = k
	case *ed25519.PrivateKey:
		priv = *k
	default:
		t.Fatalf("unexpected key type %T", key)
	}
	seed, _ := os.ReadFile(filepath.Join(work, "ed25519.sk"))
	if !bytes.Equal(priv.Seed(), seed) {
		t.Fatal("id_ed25519 does not hold the same key as ed25519.sk")
	}
}

func TestTextGenerate_PassphraseNeedsOpenSSH(t *testing.T) {
	work := isolateEnv(t)
	if _, err := executeCommand(t, "text", "generate", "--format", "ed25519", "-o", work, "--passphrase", "x"); err == nil {
		t.Fatal("expected --passphrase to be rejected without --openssh")
	}
}

// A write failure part way through must not leave a partial key set behind.
func TestTextGenerate_RemovesPartialKeysOnFailure(t *testing.T) {
	work := isolateEnv(t)
	// A directory in place of the last file makes only that write fail.
	if err := os.Mkdir(filepath.Join(work, "id_ed25519.pub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	_, err := executeCommand(t, "text", "generate", "--format", "ed25519", "-o", work, "--openssh", "--force")
	if err == nil {
		t.Fatal("expected the write into a directory to fail")
	}
	for _, name := range []string{"ed25519.sk", "ed25519.pk", "id_ed25519"} {
		if _, err := os.Stat(filepath.Join(work, name)); !os.IsNotExist(err) {
			t.Errorf("%s left behind after failed generate: %v", name, err)
		}
	}
}

func TestTextErrors(t *testing.T) {
	work := isolateEnv(t)
	mustExecute(t, "text", "generate", "-o", work)
	key := filepath.Join(work, "blake3.txt")
	msg := writeTempFile(t, work, "msg.txt", "hello!")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"malformed signature", []string{"text", "verify", "-i", msg, "-k", key, "--sig", "not*base64"}, signing.ErrDecode},
		{"wrong signature length", []string{"text", "verify", "-i", msg, "-k", key, "--sig", "AAAA"}, signing.ErrDecode},
		{"short key", []string{"text", "sign", "-i", msg, "-k", writeTempFile(t, work, "short.txt", "abc")}, signing.ErrKeyFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeCommand(t, tt.args...); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		if _, err := executeCommand(t, "text", "sign", "-i", msg, "-k", key, "--format", "rsa"); err == nil {
			t.Fatal("expected error for unknown scheme")
		}
	})
	t.Run("missing input", func(t *testing.T) {
		if _, err := executeCommand(t, "text", "sign", "-i", filepath.Join(work, "nope"), "-k", key); err == nil {
			t.Fatal("expected error for missing input")
		}
	})
	t.Run("key from stdin", func(t *testing.T) {
		if _, err := executeCommand(t, "text", "sign", "-i", msg, "-k", "-"); err == nil {
			t.Fatal("expected error for stdin key")
		}
	})
	t.Run("key required", func(t *testing.T) {
		if _, err := executeCommand(t, "text", "sign", "-i", msg); err == nil {
			t.Fatal("expected error without --key")
		}
	})
}
