// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/toeirei/rcli/internal/config"
	"github.com/toeirei/rcli/internal/core/b64"
	sshfmt "github.com/toeirei/rcli/internal/core/crypto/ssh"
	"github.com/toeirei/rcli/internal/core/input"
	"github.com/toeirei/rcli/internal/core/signing"
	"github.com/toeirei/rcli/internal/i18n"
	"github.com/toeirei/rcli/internal/logging"
)

// OpenSSH artifacts written by `text generate --openssh`.
const (
	opensshPrivateName = "id_ed25519"
	opensshPublicName  = "id_ed25519.pub"
)

func newTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Sign and verify text with BLAKE3 or Ed25519",
		Long: `The 'text' command group authenticates messages:
  - sign: print a signature for a message
  - verify: check a signature against a message
  - generate: create key material for a scheme

Signatures are printed as URL-safe base64 without padding.`,
	}
	cmd.AddCommand(newTextSignCmd(), newTextVerifyCmd(), newTextGenerateCmd())
	return cmd
}

// addFormatFlag registers --format bound to text.format.
func addFormatFlag(cmd *cobra.Command) {
	scheme := signing.Blake3Scheme
	cmd.Flags().Var(&scheme, "format", `Signature scheme ("blake3", "ed25519")`)
	config.BindFlag(cmd, "format", "text.format")
}

// configuredScheme returns the scheme resolved from flag, env and config.
func configuredScheme() (signing.Scheme, error) {
	return signing.ParseScheme(appConfig.Text.Format)
}

func newTextSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign a message with a key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("input")
			key, _ := cmd.Flags().GetString("key")
			if err := verifyInputs(in, key); err != nil {
				return err
			}
			scheme, err := configuredScheme()
			if err != nil {
				return err
			}

			stdinHint(cmd, in)
			sig, err := signing.ProcessSign(in, key, scheme)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), b64.EncodeSignature(sig))
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", input.Stdin, `Message file, "-" for stdin`)
	cmd.Flags().StringP("key", "k", "", "Signing key file")
	_ = cmd.MarkFlagRequired("key")
	addFormatFlag(cmd)
	return cmd
}

func newTextVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a signed message",
		Long: `Verify checks --sig against the message. It prints the outcome and
exits with status 1 when the signature does not match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("input")
			key, _ := cmd.Flags().GetString("key")
			sig, _ := cmd.Flags().GetString("sig")
			if err := verifyInputs(in, key); err != nil {
				return err
			}
			scheme, err := configuredScheme()
			if err != nil {
				return err
			}

			stdinHint(cmd, in)
			ok, err := signing.ProcessVerify(in, key, sig, scheme)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				printStyled(out, warnStyle, i18n.T("text.verify.fail"))
				return ErrNotVerified
			}
			printStyled(out, okStyle, i18n.T("text.verify.ok"))
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", input.Stdin, `Message file, "-" for stdin`)
	cmd.Flags().StringP("key", "k", "", "Verifying key file")
	cmd.Flags().StringP("sig", "s", "", "Signature, URL-safe base64 without padding")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("sig")
	addFormatFlag(cmd)
	return cmd
}

func newTextGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate keys",
		Long: `Generate writes fresh key material into the --output directory:
  blake3   blake3.txt (32 bytes, mode 0600)
  ed25519  ed25519.sk (seed, mode 0600) and ed25519.pk (mode 0644)

With --openssh an Ed25519 pair is also written as id_ed25519 and
id_ed25519.pub for use with ssh-keygen. --passphrase encrypts id_ed25519.

If any file cannot be written, the files written so far are removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")
			openssh, _ := cmd.Flags().GetBool("openssh")
			comment, _ := cmd.Flags().GetString("comment")
			if err := input.VerifyDir(dir); err != nil {
				return err
			}
			scheme, err := configuredScheme()
			if err != nil {
				return err
			}
			if openssh && scheme != signing.Ed25519Scheme {
				return fmt.Errorf("--openssh requires --format %s", signing.Ed25519Scheme)
			}
			if cmd.Flags().Changed("passphrase") && !openssh {
				return errors.New("--passphrase requires --openssh")
			}

			names := signing.KeyFileNames(scheme)
			paths := make([]string, 0, len(names)+2)
			for _, n := range names {
				paths = append(paths, filepath.Join(dir, n))
			}
			if openssh {
				paths = append(paths, filepath.Join(dir, opensshPrivateName), filepath.Join(dir, opensshPublicName))
			}
			if err := ensureAbsent(force, paths...); err != nil {
				return err
			}

			keys, err := signing.ProcessGenerateKeys(scheme)
			if err != nil {
				return err
			}
			defer func() {
				for i := range keys {
					if signing.SecretKeyIndex(scheme, i) {
						clear(keys[i])
					}
				}
			}()

			files := make([]keyFile, 0, len(paths))
			for i, k := range keys {
				perm := os.FileMode(0o644)
				if signing.SecretKeyIndex(scheme, i) {
					perm = 0o600
				}
				files = append(files, keyFile{path: paths[i], data: k, perm: perm})
			}

			var fp string
			if scheme == signing.Ed25519Scheme {
				seed, pub := keys[0], keys[1]
				if fp, err = sshfmt.Fingerprint(pub); err != nil {
					return err
				}
				if openssh {
					passphrase, _ := cmd.Flags().GetString("passphrase")
					priv, err := sshfmt.PrivateKeyPEM(seed, comment, passphrase)
					if err != nil {
						return err
					}
					defer clear(priv)
					line, err := sshfmt.AuthorizedKey(pub, comment)
					if err != nil {
						return err
					}
					files = append(files,
						keyFile{path: paths[len(keys)], data: priv, perm: 0o600},
						keyFile{path: paths[len(keys)+1], data: []byte(line), perm: 0o644},
					)
				}
			}

			if err := writeKeyFiles(files, force); err != nil {
				return err
			}
			if fp != "" {
				logging.Infof("%s", i18n.T("text.generate.fingerprint", fp))
			}
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", ".", "Directory to write keys into")
	cmd.Flags().Bool("force", false, "Overwrite existing key files")
	cmd.Flags().Bool("openssh", false, "Also write the Ed25519 pair in OpenSSH format")
	cmd.Flags().String("comment", "rcli", "Comment for the OpenSSH public key")
	cmd.Flags().String("passphrase", "", "Encrypt the OpenSSH private key with this passphrase")
	addFormatFlag(cmd)
	return cmd
}

type keyFile struct {
	path string
	data []byte
	perm os.FileMode
}

// writeKeyFiles writes files in order. If one write fails, the files already
// written are removed so no half-generated key set is left behind.
func writeKeyFiles(files []keyFile, force bool) error {
	for i, f := range files {
		if err := writeFile(f.path, f.data, f.perm, force); err != nil {
			for _, done := range files[:i] {
				if rmErr := os.Remove(done.path); rmErr != nil {
					logging.Warnf("remove %s: %v", done.path, rmErr)
				}
			}
			return err
		}
	}
	for _, f := range files {
		logging.Infof("%s", i18n.T("file.wrote", f.path))
	}
	return nil
}

// verifyInputs checks the message and key paths before any core work.
func verifyInputs(in, key string) error {
	if err := input.VerifyFile(in); err != nil {
		return err
	}
	if key == input.Stdin {
		return fmt.Errorf("key must be a file, not stdin")
	}
	return input.VerifyFile(key)
}
