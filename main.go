// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for rcli.
//
// Usage:
//
//	go run . [command] [flags]
//	./rcli [command] [flags]
//
// See --help for the available commands.
package main

import (
	"errors"
	"os"

	"github.com/toeirei/rcli/internal/i18n"
	"github.com/toeirei/rcli/internal/logging"
	"github.com/toeirei/rcli/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrNotVerified) {
			logging.Errorf("%s", i18n.T("error.failed", err))
		}
		os.Exit(1)
	}
}
