// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// services.go holds the chacha20, http and config commands.

package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/toeirei/rcli/internal/config"
	"github.com/toeirei/rcli/internal/core/chacha"
	"github.com/toeirei/rcli/internal/core/httpserve"
	"github.com/toeirei/rcli/internal/core/input"
	"github.com/toeirei/rcli/internal/i18n"
	"github.com/toeirei/rcli/internal/logging"
)

func newChachaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chacha20",
		Short: "Encrypt and decrypt files with ChaCha20-Poly1305",
		Long: `Encrypted output is the 12-byte nonce followed by the sealed data.
Keys are 32 raw bytes; create one with 'rcli chacha20 generate'.`,
	}

	crypt := func(use, short string, seal bool) *cobra.Command {
		c := &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				in, _ := cmd.Flags().GetString("input")
				keyPath, _ := cmd.Flags().GetString("key")
				out, _ := cmd.Flags().GetString("output")
				force, _ := cmd.Flags().GetBool("force")
				if err := verifyInputs(in, keyPath); err != nil {
					return err
				}

				key, err := chacha.LoadKey(keyPath)
				if err != nil {
					return err
				}
				defer key.Zero()

				stdinHint(cmd, in)
				data, err := input.ReadAll(in)
				if err != nil {
					return err
				}

				var result []byte
				perm := os.FileMode(0o644)
				if seal {
					result, err = chacha.Encrypt(data, key)
				} else {
					result, err = chacha.Decrypt(data, key)
					perm = 0o600
				}
				if err != nil {
					return err
				}
				if err := writeFile(out, result, perm, force); err != nil {
					return err
				}
				logging.Infof("%s", i18n.T("chacha.wrote", len(result), out))
				return nil
			},
		}
		c.Flags().StringP("input", "i", input.Stdin, `Input file, "-" for stdin`)
		c.Flags().StringP("key", "k", "", "Key file")
		c.Flags().StringP("output", "o", "", "Output file")
		c.Flags().Bool("force", false, "Overwrite the output file")
		_ = c.MarkFlagRequired("key")
		_ = c.MarkFlagRequired("output")
		return c
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Generate a key file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("output")
			force, _ := cmd.Flags().GetBool("force")
			if err := input.VerifyDir(dir); err != nil {
				return err
			}
			path := filepath.Join(dir, chacha.KeyFileName)
			if err := ensureAbsent(force, path); err != nil {
				return err
			}
			key, err := chacha.GenerateKey()
			if err != nil {
				return err
			}
			defer key.Zero()
			if err := writeFile(path, key, 0o600, force); err != nil {
				return err
			}
			logging.Infof("%s", i18n.T("file.wrote", path))
			return nil
		},
	}
	generate.Flags().StringP("output", "o", ".", "Directory to write the key into")
	generate.Flags().Bool("force", false, "Overwrite an existing key file")

	cmd.AddCommand(
		crypt("encrypt", "Encrypt a file", true),
		crypt("decrypt", "Decrypt a file", false),
		generate,
	)
	return cmd
}

func newHTTPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "HTTP helpers",
	}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve a directory over HTTP",
		Long: `Serve the files below a directory until interrupted. Paths cannot
escape the directory; directories are listed and missing files answer 404.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := appConfig.HTTP.Dir
			if err := input.VerifyDir(dir); err != nil {
				return err
			}
			h, err := httpserve.New(dir, httpserve.WithGzip(appConfig.HTTP.Gzip))
			if err != nil {
				return err
			}
			addr := net.JoinHostPort("0.0.0.0", strconv.Itoa(appConfig.HTTP.Port))
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				_ = h.Close()
				return fmt.Errorf("listen on %s: %w", addr, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logging.Infof("%s", i18n.T("http.serving", dir, ln.Addr()))
			if err := httpserve.Serve(ctx, ln, h); err != nil {
				return err
			}
			logging.Infof("%s", i18n.T("http.stopped"))
			return nil
		},
	}
	serve.Flags().StringP("dir", "d", ".", "Directory to serve")
	serve.Flags().IntP("port", "p", 8080, "Port to listen on")
	serve.Flags().Bool("gzip", true, "Compress responses for clients that accept gzip")
	config.BindFlag(serve, "dir", "http.dir")
	config.BindFlag(serve, "port", "http.port")
	config.BindFlag(serve, "gzip", "http.gzip")
	cmd.AddCommand(serve)
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the rcli configuration file",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			system, _ := cmd.Flags().GetBool("system")
			force, _ := cmd.Flags().GetBool("force")
			path, err := cmd.Flags().GetString("path")
			if err != nil {
				return err
			}
			if path == "" {
				if path, err = config.GetConfigPath(system); err != nil {
					return err
				}
			}
			if err := ensureAbsent(force, path); err != nil {
				return err
			}
			defaults := config.DefaultConfig()
			written, err := config.WriteConfigFile(&defaults, path)
			if err != nil {
				return err
			}
			logging.Infof("%s", i18n.T("config.wrote", written))
			return nil
		},
	}
	initCmd.Flags().Bool("system", false, "Write the system-wide file instead of the user file")
	initCmd.Flags().Bool("force", false, "Overwrite an existing file")
	initCmd.Flags().String("path", "", "Write to this path instead")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.Marshal(&appConfig)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if configFileUsed != "" {
				fmt.Fprintln(out, i18n.T("config.source", configFileUsed))
			} else {
				fmt.Fprintln(out, i18n.T("config.no_source"))
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, show)
	return cmd
}
