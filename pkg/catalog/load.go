package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/formpilot/formpilot/pkg/domain"
)

// file is the on-disk shape of a catalog document.
type file struct {
	Templates []domain.Template `yaml:"templates"`
}

// Parse builds a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(doc.Templates) == 0 {
		return nil, fmt.Errorf("catalog declares no templates")
	}
	return New(doc.Templates)
}

// Load reads and parses a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}
