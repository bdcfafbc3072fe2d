package services

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CompanyEntry is one defendant company and the spellings that identify it in imported text
type CompanyEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
}

// CompanyCatalog maps free-text company mentions to canonical company tags
type CompanyCatalog struct {
	Companies []CompanyEntry `yaml:"companies"`
}

// LoadCompanyCatalog reads a YAML catalog file. An empty path yields an empty catalog.
func LoadCompanyCatalog(path string) (*CompanyCatalog, error) {
	if path == "" {
		return &CompanyCatalog{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read company catalog: %w", err)
	}
	return ParseCompanyCatalog(data)
}

// ParseCompanyCatalog decodes a YAML catalog
func ParseCompanyCatalog(data []byte) (*CompanyCatalog, error) {
	var catalog CompanyCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse company catalog: %w", err)
	}
	for i, c := range catalog.Companies {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("company catalog entry %d has no name", i)
		}
	}
	return &catalog, nil
}

// Normalize returns the canonical company for a mention. The name and every alias
// are matched by folded containment, in catalog order. An empty mention gives the
// primary company; an unknown mention is kept as written.
func (c *CompanyCatalog) Normalize(text, primary string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return strings.TrimSpace(primary)
	}
	if c == nil {
		return text
	}

	folded := FoldName(text)
	for _, entry := range c.Companies {
		for _, candidate := range append([]string{entry.Name}, entry.Aliases...) {
			key := FoldName(candidate)
			if key != "" && strings.Contains(folded, key) {
				return entry.Name
			}
		}
	}
	return text
}
