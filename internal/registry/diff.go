package registry

import (
	"fmt"
	"strings"
)

// Change records one difference between two catalog revisions
type Change struct {
	Name  string
	Field string // "added", "removed", "address", "words", "encoding", "scale", "group"
	Old   string
	New   string
}

func (ch Change) String() string {
	switch ch.Field {
	case "added":
		return fmt.Sprintf("+ %s (%s)", ch.Name, ch.New)
	case "removed":
		return fmt.Sprintf("- %s (%s)", ch.Name, ch.Old)
	default:
		return fmt.Sprintf("~ %s %s: %s -> %s", ch.Name, ch.Field, ch.Old, ch.New)
	}
}

// Diff compares two catalog revisions entry by entry and reports every
// address, width, encoding, scale or group change plus additions and
// removals. This replaces eyeballing two copies of the vendor table.
func Diff(old, new *Catalog) []Change {
	var changes []Change

	oldByName := make(map[string]Entry, len(old.entries))
	for _, e := range old.entries {
		oldByName[e.Name] = e
	}

	seen := make(map[string]bool)
	for _, n := range new.entries {
		seen[n.Name] = true
		o, ok := oldByName[n.Name]
		if !ok {
			changes = append(changes, Change{Name: n.Name, Field: "added", New: describe(n)})
			continue
		}
		if o.Address != n.Address {
			changes = append(changes, Change{Name: n.Name, Field: "address", Old: fmt.Sprint(o.Address), New: fmt.Sprint(n.Address)})
		}
		if o.Words != n.Words {
			changes = append(changes, Change{Name: n.Name, Field: "words", Old: fmt.Sprint(o.Words), New: fmt.Sprint(n.Words)})
		}
		if o.Encoding != n.Encoding {
			changes = append(changes, Change{Name: n.Name, Field: "encoding", Old: string(o.Encoding), New: string(n.Encoding)})
		}
		if o.Scale != n.Scale {
			changes = append(changes, Change{Name: n.Name, Field: "scale", Old: fmt.Sprint(o.Scale), New: fmt.Sprint(n.Scale)})
		}
		if o.Group != n.Group {
			changes = append(changes, Change{Name: n.Name, Field: "group", Old: o.Group, New: n.Group})
		}
	}
	for _, o := range old.entries {
		if !seen[o.Name] {
			changes = append(changes, Change{Name: o.Name, Field: "removed", Old: describe(o)})
		}
	}

	return changes
}

// FormatDiff renders a change list as a readable multi-line report
func FormatDiff(old, new *Catalog, changes []Change) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "catalog %s -> %s: %d change(s)\n", old.Version(), new.Version(), len(changes))
	for _, ch := range changes {
		sb.WriteString("  ")
		sb.WriteString(ch.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

func describe(e Entry) string {
	return fmt.Sprintf("addr %d, %d word(s), %s", e.Address, e.Words, e.Encoding)
}
