// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, the shared PersistentPreRunE that loads
// configuration, and the helpers used by every subcommand.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/toeirei/rcli/buildvars"
	"github.com/toeirei/rcli/internal/config"
	"github.com/toeirei/rcli/internal/i18n"
	"github.com/toeirei/rcli/internal/logging"
	"golang.org/x/term"
)

// ErrNotVerified is returned by `text verify` when the signature does not
// match. main exits 1 without logging it again.
var ErrNotVerified = errors.New("signature not verified")

var (
	appConfig      config.Config
	configFileUsed string
)

var (
	okStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	warnStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	passStyle = lipgloss.NewStyle().Bold(true)
)

func setupDefaultServices(cmd *cobra.Command, args []string) error {
	configPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, configFileUsed, err = config.LoadConfig[config.Config](cmd, config.Defaults(), configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := appConfig.Log.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	if err := logging.SetLevel(level); err != nil {
		return err
	}
	if configFileUsed != "" {
		logging.Debugf("using config file %s", configFileUsed)
	}

	i18n.Init(appConfig.Language)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// NewRootCmd creates and configures a new root cobra command.
// Every call builds a fresh command tree so tests stay isolated.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rcli",
		Short: "rcli is a small command-line toolbox.",
		Long: `rcli bundles everyday helpers in one binary: signing and verifying
text with BLAKE3 or Ed25519, converting CSV, generating passwords,
base64, ChaCha20-Poly1305 file encryption and a static HTTP server.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setupDefaultServices,
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion

	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("lang", "en", `Message language ("en", "de")`)
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	config.BindFlag(cmd, "lang", "language")
	config.BindFlag(cmd, "log-level", "log.level")

	cmd.AddCommand(
		newTextCmd(),
		newCsvCmd(),
		newGenpassCmd(),
		newBase64Cmd(),
		newChachaCmd(),
		newHTTPCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault("dev")
	resolvedCommit := buildvars.CommitOrDefault("dev")
	resolvedDate := buildvars.Date

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" && resolvedCommit == "dev" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" && resolvedDate == "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit to aid support.
	if resolvedVersion == "dev" && resolvedCommit != "dev" && resolvedCommit != "" {
		resolvedVersion = resolvedCommit
	}
	return resolvedVersion, resolvedCommit, resolvedDate
}

// isTerminal reports whether w is a terminal.
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printStyled writes msg to w, styled when w is a terminal.
func printStyled(w io.Writer, style lipgloss.Style, msg string) {
	if isTerminal(w) {
		msg = style.Render(msg)
	}
	fmt.Fprintln(w, msg)
}

// stdinHint tells an interactive user that input is expected on stdin.
func stdinHint(cmd *cobra.Command, in string) {
	if in == "-" && isTerminal(cmd.InOrStdin()) {
		logging.Infof("%s", i18n.T("text.stdin_hint"))
	}
}

// writeFile writes data to path with perm, refusing to replace an existing
// file unless force is set.
func writeFile(path string, data []byte, perm os.FileMode, force bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, perm)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return errors.New(i18n.T("file.exists", path))
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// An overwritten file keeps its old mode otherwise.
	return os.Chmod(path, perm)
}

// ensureAbsent fails if any of paths exists and force is not set.
func ensureAbsent(force bool, paths ...string) error {
	if force {
		return nil
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return errors.New(i18n.T("file.exists", p))
		}
	}
	return nil
}
