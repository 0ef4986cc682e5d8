// Copyright (c) 2026 Keymaster Team
// rcli - command-line toolbox
// This source code is licensed under the MIT license found in the LICENSE file.

// Package csvconv converts CSV records into JSON, YAML or TOML documents.
package csvconv

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is an output document format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ErrUnsupportedFormat is returned by ParseFormat for unknown names.
var ErrUnsupportedFormat = errors.New("unsupported format")

// ParseFormat accepts json, yaml or toml in any letter case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case JSON, YAML, TOML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

func (f Format) String() string { return string(f) }

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }

// Options controls parsing and rendering.
type Options struct {
	Format    Format
	Delimiter rune
	// Header treats the first record as field names. Without a header,
	// fields are named col1, col2, ...
	Header bool
}

// ErrDuplicateField is returned when a header names the same field twice.
var ErrDuplicateField = errors.New("duplicate field name")

// record is one CSV row. It marshals as a mapping whose keys keep the
// column order of the input.
type record struct {
	fields []string
	values []string
}

func (r record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (r record) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i, f := range r.fields {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.values[i]},
		)
	}
	return n, nil
}

// read parses every record of r.
func read(r io.Reader, opts Options) ([]record, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return []record{}, nil
	}

	var names []string
	if opts.Header {
		names, rows = rows[0], rows[1:]
		seen := make(map[string]struct{}, len(names))
		for _, n := range names {
			if _, dup := seen[n]; dup {
				return nil, fmt.Errorf("%w: %q", ErrDuplicateField, n)
			}
			seen[n] = struct{}{}
		}
	} else {
		for i := range rows[0] {
			names = append(names, "col"+strconv.Itoa(i+1))
		}
	}

	records := make([]record, 0, len(rows))
	for _, row := range rows {
		records = append(records, record{fields: names, values: row})
	}
	return records, nil
}

// render serialises records in the given format.
func render(records []record, f Format) ([]byte, error) {
	switch f {
	case JSON:
		out, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case YAML:
		return yaml.Marshal(records)
	case TOML:
		return renderTOML(records)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// renderTOML writes records as a [[records]] array of tables. TOML needs a
// table at the root. go-toml sorts map keys, so every pair is encoded on
// its own and the tables are assembled in column order.
func renderTOML(records []record) ([]byte, error) {
	if len(records) == 0 {
		return toml.Marshal(map[string][]string{"records": {}})
	}
	var b bytes.Buffer
	for i, rec := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("[[records]]\n")
		for j, f := range rec.fields {
			line, err := toml.Marshal(map[string]string{f: rec.values[j]})
			if err != nil {
				return nil, err
			}
			b.Write(line)
		}
	}
	return b.Bytes(), nil
}

// Convert reads CSV from r and renders it per opts. It also returns the
// number of records converted.
func Convert(r io.Reader, opts Options) ([]byte, int, error) {
	records, err := read(r, opts)
	if err != nil {
		return nil, 0, err
	}
	out, err := render(records, opts.Format)
	if err != nil {
		return nil, 0, err
	}
	return out, len(records), nil
}
