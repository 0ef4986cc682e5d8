// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package testutil holds small test doubles shared by package tests.
package testutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// ErrFailingReader is the default error returned by FailingReader.
var ErrFailingReader = errors.New("testutil: read failed")

// FailingReader is an io.Reader whose every Read fails, used to simulate an
// exhausted entropy source or a broken input stream.
type FailingReader struct {
	// Err, if set, replaces ErrFailingReader.
	Err error
}

func (f FailingReader) Read([]byte) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return 0, ErrFailingReader
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t testing.TB, dir, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, content, 0o600); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}
