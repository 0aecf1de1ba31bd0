// Package chartfile reads chart-of-accounts seed files.
package chartfile

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// Load reads a YAML chart file. An empty path yields domain.DefaultChart.
func Load(path string) (domain.ChartSeed, error) {
	if path == "" {
		return domain.DefaultChart(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ChartSeed{}, fmt.Errorf("failed to read chart file: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a chart seed. Unknown keys are rejected so a typo in a
// field name does not silently drop an account attribute.
func Parse(r io.Reader) (domain.ChartSeed, error) {
	var seed domain.ChartSeed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return domain.ChartSeed{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i, a := range seed.Accounts {
		if a.Code == "" || a.Name == "" {
			return domain.ChartSeed{}, fmt.Errorf("account #%d: code and name are required", i+1)
		}
		if !a.Type.Valid() {
			return domain.ChartSeed{}, fmt.Errorf("account %s: unknown type %q", a.Code, a.Type)
		}
		if err := domain.CheckNormalSide(a.Type, a.NormalDebit); err != nil {
			return domain.ChartSeed{}, fmt.Errorf("account %s: %w", a.Code, err)
		}
	}
	for i, j := range seed.Journals {
		if j.Name == "" {
			return domain.ChartSeed{}, fmt.Errorf("journal #%d: name is required", i+1)
		}
	}
	return seed, nil
}
