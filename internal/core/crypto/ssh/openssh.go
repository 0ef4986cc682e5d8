// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// package ssh renders Ed25519 signing keys in OpenSSH formats so keys made by
// `rcli text generate` can be inspected and reused with ssh-keygen.
package ssh // import "github.com/toeirei/rcli/internal/core/crypto/ssh"

import (
	"crypto/ed25519"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// ErrKeySize is returned for seeds or public keys that are not 32 bytes.
var ErrKeySize = errors.New("ed25519 key must be 32 bytes")

func publicKey(pub []byte) (ssh.PublicKey, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%w: got %d", ErrKeySize, len(pub))
	}
	pk, err := ssh.NewPublicKey(ed25519.PublicKey(pub))
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH public key: %w", err)
	}
	return pk, nil
}

// Fingerprint returns the SHA256 fingerprint of pub as printed by ssh-keygen -l.
func Fingerprint(pub []byte) (string, error) {
	pk, err := publicKey(pub)
	if err != nil {
		return "", err
	}
	return ssh.FingerprintSHA256(pk), nil
}

// AuthorizedKey returns pub as a single authorized_keys line ending in a newline.
func AuthorizedKey(pub []byte, comment string) (string, error) {
	pk, err := publicKey(pub)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(string(ssh.MarshalAuthorizedKey(pk)))
	if comment != "" {
		line += " " + comment
	}
	return line + "\n", nil
}

// PrivateKeyPEM returns the OpenSSH private key block for seed. A non-empty
// passphrase encrypts the block.
func PrivateKeyPEM(seed []byte, comment, passphrase string) ([]byte, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("%w: got %d", ErrKeySize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	defer clear(priv)

	var (
		block *pem.Block
		err   error
	)
	if passphrase == "" {
		block, err = ssh.MarshalPrivateKey(priv, comment)
	} else {
		block, err = ssh.MarshalPrivateKeyWithPassphrase(priv, comment, []byte(passphrase))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	return pem.EncodeToMemory(block), nil
}
