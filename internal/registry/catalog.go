package registry

import (
	"sort"

	"sprsun-modbus-bridge/internal/errors"
)

// Encoding identifies how raw register words encode a quantity
type Encoding string

const (
	// ScaledInt16 is a single two's-complement word divided by a fixed scale
	ScaledInt16 Encoding = "scaled_int16"
	// Float32BE is an IEEE-754 float32 spread over two words, high word first
	Float32BE Encoding = "float32_be"
	// UInt32BE is an unsigned 32-bit integer spread over two words, high word first
	UInt32BE Encoding = "uint32_be"
)

// Words returns the register span the encoding requires
func (e Encoding) Words() int {
	switch e {
	case Float32BE, UInt32BE:
		return 2
	default:
		return 1
	}
}

// Entry is one row of the register catalog. Address is the zero-based
// holding register address; the vendor's documentation lists it as
// address + 40001.
type Entry struct {
	Name        string   `yaml:"name"`
	Address     uint16   `yaml:"address"`
	Words       int      `yaml:"words"`
	Encoding    Encoding `yaml:"encoding"`
	Scale       float64  `yaml:"scale,omitempty"`
	Unit        string   `yaml:"unit,omitempty"`
	DeviceClass string   `yaml:"device_class,omitempty"`
	StateClass  string   `yaml:"state_class,omitempty"`
	Group       string   `yaml:"group"`
	// Plausible value range for diagnostics; both zero means no hint
	Min float64 `yaml:"min,omitempty"`
	Max float64 `yaml:"max,omitempty"`
}

// End returns the first address past the entry's register span
func (e Entry) End() uint16 {
	return e.Address + uint16(e.Words)
}

// HasRange reports whether the entry declares a plausibility range
func (e Entry) HasRange() bool {
	return e.Min != e.Max
}

// Modbus returns the address in the vendor manual's 4xxxx notation
func (e Entry) Modbus() uint32 {
	return uint32(e.Address) + 40001
}

// Block describes one bulk read request: Count consecutive words
// starting at Start. Blocks are always derived from the catalog,
// never edited by hand.
type Block struct {
	Group string `yaml:"group"`
	Start uint16 `yaml:"start"`
	Count uint16 `yaml:"count"`
}

// Catalog is the authoritative register table. It is immutable after
// construction; every component resolves addresses through it.
type Catalog struct {
	version string
	entries []Entry
	byName  map[string]int
}

// New builds a catalog preserving the given entry order
func New(version string, entries []Entry) *Catalog {
	c := &Catalog{
		version: version,
		entries: make([]Entry, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	copy(c.entries, entries)
	for i, e := range c.entries {
		c.byName[e.Name] = i
	}
	return c
}

// Version returns the catalog revision string
func (c *Catalog) Version() string {
	return c.version
}

// Lookup resolves a quantity name to its catalog entry
func (c *Catalog) Lookup(name string) (Entry, error) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, errors.NewUnknownQuantityError(name)
	}
	return c.entries[i], nil
}

// Entries returns all entries in declaration order
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// GroupEntries returns the entries of one register group in declaration order
func (c *Catalog) GroupEntries(group string) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Group == group {
			out = append(out, e)
		}
	}
	return out
}

// GroupNames returns all group names ordered by first occurrence
func (c *Catalog) GroupNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, e := range c.entries {
		if !seen[e.Group] {
			seen[e.Group] = true
			names = append(names, e.Group)
		}
	}
	return names
}

// Block derives the bulk read descriptor for one group. The count spans
// from the lowest address to the end of the widest-reaching entry, so a
// resized entry automatically grows the fetch length.
func (c *Catalog) Block(group string) (Block, error) {
	entries := c.GroupEntries(group)
	if len(entries) == 0 {
		return Block{}, errors.NewUnknownQuantityError(group)
	}
	start := entries[0].Address
	end := entries[0].End()
	for _, e := range entries[1:] {
		if e.Address < start {
			start = e.Address
		}
		if e.End() > end {
			end = e.End()
		}
	}
	return Block{Group: group, Start: start, Count: end - start}, nil
}

// Blocks derives the bulk read descriptors for every group, ordered by
// starting address for deterministic diagnostics
func (c *Catalog) Blocks() []Block {
	var blocks []Block
	for _, group := range c.GroupNames() {
		b, err := c.Block(group)
		if err != nil {
			continue
		}
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Start < blocks[j].Start
	})
	return blocks
}

// Names returns all quantity names in declaration order
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}
