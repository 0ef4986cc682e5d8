// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the rcli command-line interface using Cobra.
// It wires configuration, logging and translations, and provides commands
// that delegate to the packages under internal/core. CLI code should remain
// thin: parse flags, open files, call core, print results.
package cli
