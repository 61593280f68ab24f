// Package country resolves ISO 3166-1 alpha-2 codes to display names.
package country

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var countriesYAML []byte

// Table maps upper-case two-letter codes to names.
type Table struct {
	names map[string]string
}

// Parse builds a Table from YAML of the form `CODE: "Name"`.
func Parse(data []byte) (*Table, error) {
	raw := make(map[string]string)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse country table: %w", err)
	}

	names := make(map[string]string, len(raw))
	for code, name := range raw {
		names[strings.ToUpper(strings.TrimSpace(code))] = name
	}
	return &Table{names: names}, nil
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the embedded table.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(countriesYAML)
		if err != nil {
			panic(err)
		}
		defaultTable = t
	})
	return defaultTable
}

// Lookup returns the name for code, case-insensitively.
func (t *Table) Lookup(code string) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.names[strings.ToUpper(strings.TrimSpace(code))]
	return name, ok
}

// DisplayName returns the name for code, or the raw code when unknown.
func (t *Table) DisplayName(code string) string {
	if name, ok := t.Lookup(code); ok {
		return name
	}
	return code
}

// Len returns the number of known codes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Codes returns all known codes in sorted order.
func (t *Table) Codes() []string {
	if t == nil {
		return nil
	}
	codes := make([]string, 0, len(t.names))
	for code := range t.names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DisplayName resolves code against the embedded table.
func DisplayName(code string) string {
	return Default().DisplayName(code)
}
