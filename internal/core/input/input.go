// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package input resolves input identifiers used across rcli commands.
// The identifier "-" denotes standard input; anything else is a file path.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Stdin is the identifier that selects the process' standard input.
const Stdin = "-"

// ErrNotFound is returned by VerifyFile and VerifyDir when the path does not exist.
var ErrNotFound = errors.New("path does not exist")

// stdin is swapped by tests.
var stdin io.Reader = os.Stdin

// Open returns a reader for the given identifier. Closing the returned
// reader never closes the process' standard input.
func Open(id string) (io.ReadCloser, error) {
	if id == Stdin {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(id)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", id, err)
	}
	return f, nil
}

// ReadAll opens id, reads it to the end and closes it.
func ReadAll(id string) ([]byte, error) {
	r, err := Open(id)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", Name(id), err)
	}
	return data, nil
}

// Name returns a human readable name for id, used in log lines.
func Name(id string) string {
	if id == Stdin {
		return "<stdin>"
	}
	return id
}

// VerifyFile accepts "-" or a path that exists.
func VerifyFile(id string) error {
	if id == Stdin {
		return nil
	}
	if _, err := os.Stat(id); err != nil {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return nil
}

// VerifyDir accepts an existing directory.
func VerifyDir(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}
