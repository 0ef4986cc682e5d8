// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

package testutil

import (
	"errors"
	"os"
	"testing"
)

func TestFailingReader(t *testing.T) {
	if _, err := (FailingReader{}).Read(make([]byte, 1)); !errors.Is(err, ErrFailingReader) {
		t.Fatalf("expected ErrFailingReader, got %v", err)
	}
	custom := errors.New("custom")
	if _, err := (FailingReader{Err: custom}).Read(nil); !errors.Is(err, custom) {
		t.Fatalf("expected custom error, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	p := WriteFile(t, t.TempDir(), "k", []byte("abc"))
	data, err := os.ReadFile(p)
	if err != nil || string(data) != "abc" {
		t.Fatalf("unexpected content %q: %v", data, err)
	}
}
