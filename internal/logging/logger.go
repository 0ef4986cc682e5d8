// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package logging is the process-wide logger. Diagnostics go to stderr so
// command results on stdout stay pipeable.
package logging

import (
	"fmt"
	"io"
	"os"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. Callers should use the helper functions
// below rather than configuring their own.
var L = clog.NewWithOptions(os.Stderr, clog.Options{Prefix: "rcli"})

// SetLevel sets the minimum level from a name such as "debug" or "warn".
// Unknown names leave the level unchanged and return an error.
func SetLevel(name string) error {
	lvl, err := clog.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}
	L.SetLevel(lvl)
	return nil
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) { L.SetOutput(w) }

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...any) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...any) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...any) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...any) {
	L.Error(fmt.Sprintf(format, v...))
}
