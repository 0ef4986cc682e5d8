// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks translation keys. It scans the Go sources for i18n.T()
// calls and compares them against the YAML locale files:
//   - a key used in code but absent from the primary locale is an error
//   - a key of the primary locale missing from another locale is an error
//   - a key defined but never used is reported as orphaned
//
// Run it from the repository root: go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Location stores the file and line number of a found key.
type Location struct {
	Filepath string
	Line     int
}

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

var usedKeyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)

// Report is the outcome of one lint run.
type Report struct {
	// Undefined maps keys used in code but absent from the primary locale
	// to the first place they appear.
	Undefined map[string]Location
	// Missing maps each secondary locale file to the primary keys it lacks.
	Missing map[string][]string
	// Orphaned lists primary keys that no code uses.
	Orphaned []string
}

// Failed reports whether the run found errors. Orphans are only warnings.
func (r Report) Failed() bool {
	return len(r.Undefined) > 0 || len(r.Missing) > 0
}

func main() {
	report, err := lint(projectRoot, localesDir, primaryLocale)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	printReport(os.Stdout, report)
	if report.Failed() {
		os.Exit(1)
	}
}

func lint(root, dir, primary string) (Report, error) {
	report := Report{Undefined: map[string]Location{}, Missing: map[string][]string{}}

	used, err := findUsedKeys(root)
	if err != nil {
		return report, fmt.Errorf("error finding used keys: %w", err)
	}
	primaryKeys, err := loadKeysFromLocale(filepath.Join(dir, primary))
	if err != nil {
		return report, fmt.Errorf("error loading primary locale %q: %w", primary, err)
	}

	for key, loc := range used {
		if _, ok := primaryKeys[key]; !ok {
			report.Undefined[key] = loc
		}
	}
	for key := range primaryKeys {
		if _, ok := used[key]; !ok {
			report.Orphaned = append(report.Orphaned, key)
		}
	}
	slices.Sort(report.Orphaned)

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return report, fmt.Errorf("error finding locale files: %w", err)
	}
	for _, file := range files {
		if filepath.Base(file) == primary {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return report, fmt.Errorf("error loading %s: %w", file, err)
		}
		var missing []string
		for key := range primaryKeys {
			if _, ok := keys[key]; !ok {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			slices.Sort(missing)
			report.Missing[filepath.Base(file)] = missing
		}
	}
	return report, nil
}

func printReport(w io.Writer, r Report) {
	fmt.Fprintln(w, "--- Keys used in code but not defined ---")
	if len(r.Undefined) == 0 {
		fmt.Fprintln(w, "  ✨ None found.")
	}
	undefined := make([]string, 0, len(r.Undefined))
	for key := range r.Undefined {
		undefined = append(undefined, key)
	}
	slices.Sort(undefined)
	for _, key := range undefined {
		loc := r.Undefined[key]
		fmt.Fprintf(w, "  - Undefined: %s (%s:%d)\n", key, loc.Filepath, loc.Line)
	}

	fmt.Fprintln(w, "--- Keys missing from secondary locales ---")
	if len(r.Missing) == 0 {
		fmt.Fprintln(w, "  ✨ All keys present.")
	}
	for _, file := range sortedKeys(r.Missing) {
		for _, key := range r.Missing[file] {
			fmt.Fprintf(w, "  - Missing in %s: %s\n", file, key)
		}
	}

	fmt.Fprintln(w, "--- Orphaned keys ---")
	if len(r.Orphaned) == 0 {
		fmt.Fprintln(w, "  ✨ None found.")
	}
	for _, key := range r.Orphaned {
		fmt.Fprintf(w, "  - Orphaned: %s\n", key)
	}

	switch {
	case r.Failed():
		fmt.Fprintln(w, "❌ Found issues that need to be addressed.")
	case len(r.Orphaned) > 0:
		fmt.Fprintln(w, "⚠️  Found orphaned keys. Please consider removing them.")
	default:
		fmt.Fprintln(w, "✅ All translation files are consistent!")
	}
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// findUsedKeys scans non-test .go files below root for i18n.T("key") calls.
func findUsedKeys(root string) (map[string]Location, error) {
	keys := make(map[string]Location)
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			// The linter itself and underscore-prefixed reference trees are skipped.
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for i, line := range strings.Split(string(content), "\n") {
			for _, m := range usedKeyRe.FindAllStringSubmatch(line, -1) {
				if _, seen := keys[m[1]]; !seen {
					keys[m[1]] = Location{Filepath: path, Line: i + 1}
				}
			}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into dot-separated keys. Locale files
// may use either flat "a.b" keys or nesting; both yield the same result.
func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			newPrefix := k
			if prefix != "" {
				newPrefix = prefix + "." + k
			}
			flattenYAML(newPrefix, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
