// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// toolbox.go holds the small everyday commands: csv, genpass and base64.

package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/toeirei/rcli/internal/config"
	"github.com/toeirei/rcli/internal/core/b64"
	"github.com/toeirei/rcli/internal/core/csvconv"
	"github.com/toeirei/rcli/internal/core/genpass"
	"github.com/toeirei/rcli/internal/core/input"
	"github.com/toeirei/rcli/internal/i18n"
	"github.com/toeirei/rcli/internal/logging"
)

// copyToClipboard is swapped by tests; CI machines have no clipboard.
var copyToClipboard = clipboard.WriteAll

func newCsvCmd() *cobra.Command {
	format := csvconv.JSON
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Convert CSV to JSON, YAML or TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, _ := cmd.Flags().GetString("input")
			out, _ := cmd.Flags().GetString("output")
			delim, _ := cmd.Flags().GetString("delimiter")
			header, _ := cmd.Flags().GetBool("header")
			if err := input.VerifyFile(in); err != nil {
				return err
			}
			d, size := utf8.DecodeRuneInString(delim)
			if size == 0 || size != len(delim) || d == utf8.RuneError {
				return fmt.Errorf("delimiter must be a single character, got %q", delim)
			}
			if out == "" {
				out = "output." + format.String()
			}

			r, err := input.Open(in)
			if err != nil {
				return err
			}
			defer r.Close()

			data, n, err := csvconv.Convert(r, csvconv.Options{Format: format, Delimiter: d, Header: header})
			if err != nil {
				return err
			}
			if err := writeFile(out, data, 0o644, true); err != nil {
				return err
			}
			logging.Infof("%s", i18n.T("csv.wrote", n, out))
			return nil
		},
	}
	cmd.Flags().StringP("input", "i", "", "CSV file to convert")
	cmd.Flags().StringP("output", "o", "", `Output file (default "output.<format>")`)
	cmd.Flags().Var(&format, "format", `Output format ("json", "yaml", "toml")`)
	cmd.Flags().StringP("delimiter", "d", ",", "Field delimiter")
	cmd.Flags().Bool("header", true, "First row holds field names")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newGenpassCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genpass",
		Short: "Generate a random password",
		Long: `Generate a password from letters, digits and symbols. Glyphs that are
easy to confuse (0, O, 1, l, I) are never used. At least one character
of every enabled class is included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := genpass.Options{Length: appConfig.Genpass.Length}
			opts.NoUpper, _ = cmd.Flags().GetBool("no-uppercase")
			opts.NoLower, _ = cmd.Flags().GetBool("no-lowercase")
			opts.NoNumber, _ = cmd.Flags().GetBool("no-number")
			opts.NoSymbol, _ = cmd.Flags().GetBool("no-symbol")
			copyFlag, _ := cmd.Flags().GetBool("copy")

			pass, err := genpass.Generate(opts)
			if err != nil {
				return err
			}
			printStyled(cmd.OutOrStdout(), passStyle, pass)
			if copyFlag {
				if err := copyToClipboard(pass); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				logging.Infof("%s", i18n.T("genpass.copied"))
			}
			return nil
		},
	}
	cmd.Flags().IntP("length", "l", genpass.DefaultLength, "Password length")
	cmd.Flags().Bool("no-uppercase", false, "Leave out upper-case letters")
	cmd.Flags().Bool("no-lowercase", false, "Leave out lower-case letters")
	cmd.Flags().Bool("no-number", false, "Leave out digits")
	cmd.Flags().Bool("no-symbol", false, "Leave out symbols")
	cmd.Flags().Bool("copy", false, "Also copy the password to the clipboard")
	config.BindFlag(cmd, "length", "genpass.length")
	return cmd
}

func newBase64Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "base64",
		Short: "Encode or decode base64",
	}

	encode := &cobra.Command{
		Use:   "encode",
		Short: "Encode input as base64",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, format, err := base64Flags(cmd)
			if err != nil {
				return err
			}
			stdinHint(cmd, in)
			data, err := input.ReadAll(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), b64.Encode(data, format))
			return nil
		},
	}
	decode := &cobra.Command{
		Use:   "decode",
		Short: "Decode base64 input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, format, err := base64Flags(cmd)
			if err != nil {
				return err
			}
			stdinHint(cmd, in)
			data, err := input.ReadAll(in)
			if err != nil {
				return err
			}
			plain, err := b64.Decode(string(data), format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(plain)
			return err
		},
	}

	for _, c := range []*cobra.Command{encode, decode} {
		format := b64.Standard
		c.Flags().StringP("input", "i", input.Stdin, `Input file, "-" for stdin`)
		c.Flags().Var(&format, "format", `Alphabet ("standard", "urlsafe")`)
	}
	cmd.AddCommand(encode, decode)
	return cmd
}

func base64Flags(cmd *cobra.Command) (string, b64.Format, error) {
	in, _ := cmd.Flags().GetString("input")
	if err := input.VerifyFile(in); err != nil {
		return "", 0, err
	}
	f, ok := cmd.Flags().Lookup("format").Value.(*b64.Format)
	if !ok {
		return "", 0, fmt.Errorf("unexpected --format flag type")
	}
	return in, *f, nil
}
