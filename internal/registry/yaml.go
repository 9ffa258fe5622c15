package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogDoc is the on-disk snapshot shape
type catalogDoc struct {
	Version   string  `yaml:"version"`
	Registers []Entry `yaml:"registers"`
	Blocks    []Block `yaml:"blocks"`
}

// DumpYAML serializes the catalog, including its derived blocks, as a
// baseline snapshot for later diffing
func DumpYAML(c *Catalog) ([]byte, error) {
	doc := catalogDoc{
		Version:   c.Version(),
		Registers: c.Entries(),
		Blocks:    c.Blocks(),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, fmt.Errorf("error serializing catalog: %w", err)
	}
	return data, nil
}

// LoadYAML parses a catalog snapshot. The snapshot runs through the full
// consistency validation and its declared blocks are checked against the
// entries, so an inconsistent or stale baseline is rejected up front.
func LoadYAML(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("error parsing catalog: %w", err)
	}
	c := New(doc.Version, doc.Registers)
	if problems := c.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("catalog snapshot is inconsistent: %v", problems)
	}
	if problems := c.CheckBlocks(doc.Blocks); len(problems) > 0 {
		return nil, fmt.Errorf("catalog snapshot has stale blocks: %v", problems)
	}
	return c, nil
}

// LoadYAMLFile reads and parses a catalog snapshot from disk
func LoadYAMLFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog snapshot %s: %w", path, err)
	}
	return LoadYAML(data)
}
