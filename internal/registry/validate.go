package registry

import (
	"sprsun-modbus-bridge/internal/errors"
)

// Validate cross-checks the catalog for internal consistency and returns
// every problem found. A non-empty result means the register map cannot
// be trusted and the bridge must not start polling with it.
//
// Checks performed:
//   - no two entries claim overlapping register ranges
//   - every entry's declared width matches what its encoding requires
func (c *Catalog) Validate() []error {
	var problems []error

	for _, e := range c.entries {
		if e.Words != e.Encoding.Words() {
			problems = append(problems, errors.NewWidthMismatchError(e.Name, uint8(e.Words), uint8(e.Encoding.Words())))
		}
	}

	// Pairwise range intersection over [address, address+words)
	for i := 0; i < len(c.entries); i++ {
		for j := i + 1; j < len(c.entries); j++ {
			a, b := c.entries[i], c.entries[j]
			if a.Address < b.End() && b.Address < a.End() {
				problems = append(problems, errors.NewOverlapConflictError(a.Name, b.Name))
			}
		}
	}

	return problems
}

// CheckBlocks verifies that each declared bulk read covers every entry of
// its group. Blocks handed to the transport should come from Blocks() and
// always pass; a snapshot loaded from disk can go stale when an entry is
// added or widened, and this is how that is caught.
func (c *Catalog) CheckBlocks(blocks []Block) []error {
	var problems []error
	for _, b := range blocks {
		for _, e := range c.GroupEntries(b.Group) {
			if e.Address < b.Start || e.End() > b.Start+b.Count {
				need := uint16(0)
				if e.End() > b.Start {
					need = e.End() - b.Start
				}
				problems = append(problems, errors.NewBlockTooShortError(b.Group, e.Name, b.Count, need))
			}
		}
	}
	return problems
}
