package registry

import (
	"strings"
	"testing"
)

func TestValidateRejectsOverlap(t *testing.T) {
	// Regression for the documented fan feedback defect: an older table
	// revision assigned both RPM feedbacks to register 200
	broken := New("broken", []Entry{
		{Name: "dc_fan1_rpm", Address: 200, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: "sensors"},
		{Name: "dc_fan2_rpm", Address: 200, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: "sensors"},
	})

	problems := broken.Validate()
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %d: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0].Error(), "dc_fan1_rpm") || !strings.Contains(problems[0].Error(), "dc_fan2_rpm") {
		t.Errorf("overlap error should name both entries: %v", problems[0])
	}

	corrected := New("corrected", []Entry{
		{Name: "dc_fan1_rpm", Address: 202, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: "sensors"},
		{Name: "dc_fan2_rpm", Address: 200, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: "sensors"},
	})
	if problems := corrected.Validate(); len(problems) != 0 {
		t.Errorf("corrected catalog should validate, got %v", problems)
	}
}

func TestValidateRejectsTwoWordOverlap(t *testing.T) {
	// A two-word entry occupies its address and the next one
	broken := New("broken", []Entry{
		{Name: "water_flow", Address: 372, Words: 2, Encoding: Float32BE, Group: "power"},
		{Name: "stray", Address: 373, Words: 1, Encoding: ScaledInt16, Scale: 10, Group: "power"},
	})

	if problems := broken.Validate(); len(problems) != 1 {
		t.Errorf("expected 1 overlap problem, got %v", problems)
	}
}

func TestValidateRejectsWidthMismatch(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
	}{
		{
			name:  "float32 declared one word",
			entry: Entry{Name: "unit_power", Address: 387, Words: 1, Encoding: Float32BE, Group: "power"},
		},
		{
			name:  "uint32 declared one word",
			entry: Entry{Name: "working_hours_pump", Address: 364, Words: 1, Encoding: UInt32BE, Group: "hours"},
		},
		{
			name:  "scaled int declared two words",
			entry: Entry{Name: "unit_cop", Address: 389, Words: 2, Encoding: ScaledInt16, Scale: 10, Group: "power"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := New("test", []Entry{tt.entry})
			if problems := catalog.Validate(); len(problems) != 1 {
				t.Errorf("expected 1 width problem, got %v", problems)
			}
		})
	}
}

func TestCheckBlocksRejectsStaleBlock(t *testing.T) {
	// The documented failure: bulk read length left at 18 words after
	// an entry grew past address 389
	catalog := New("test", []Entry{
		{Name: "water_flow", Address: 372, Words: 2, Encoding: Float32BE, Group: "power"},
		{Name: "unit_cop", Address: 389, Words: 2, Encoding: Float32BE, Group: "power"},
	})

	stale := []Block{{Group: "power", Start: 372, Count: 18}}
	problems := catalog.CheckBlocks(stale)
	if len(problems) != 1 {
		t.Fatalf("expected 1 problem, got %v", problems)
	}
	if !strings.Contains(problems[0].Error(), "unit_cop") {
		t.Errorf("problem should name the uncovered entry: %v", problems[0])
	}

	// The derived block covers everything
	derived := catalog.Blocks()
	if problems := catalog.CheckBlocks(derived); len(problems) != 0 {
		t.Errorf("derived blocks should pass, got %v", problems)
	}
}

func TestDiffReportsChanges(t *testing.T) {
	old := New("1", []Entry{
		{Name: "dc_fan1_rpm", Address: 200, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: "sensors"},
		{Name: "unit_cop", Address: 389, Words: 2, Encoding: Float32BE, Group: "power"},
		{Name: "dropped", Address: 500, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: "misc"},
	})
	updated := New("2", []Entry{
		{Name: "dc_fan1_rpm", Address: 202, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: "sensors"},
		{Name: "unit_cop", Address: 389, Words: 1, Encoding: ScaledInt16, Scale: 10, Group: "power"},
		{Name: "added", Address: 600, Words: 1, Encoding: ScaledInt16, Scale: 1, Group: "misc"},
	})

	changes := Diff(old, updated)

	byKey := make(map[string][]string)
	for _, ch := range changes {
		byKey[ch.Name] = append(byKey[ch.Name], ch.Field)
	}

	if fields := byKey["dc_fan1_rpm"]; len(fields) != 1 || fields[0] != "address" {
		t.Errorf("dc_fan1_rpm changes = %v, expected address only", fields)
	}
	// Re-encoding unit_cop touches words, encoding and scale
	if fields := byKey["unit_cop"]; len(fields) != 3 {
		t.Errorf("unit_cop changes = %v, expected words+encoding+scale", fields)
	}
	if fields := byKey["added"]; len(fields) != 1 || fields[0] != "added" {
		t.Errorf("added changes = %v", fields)
	}
	if fields := byKey["dropped"]; len(fields) != 1 || fields[0] != "removed" {
		t.Errorf("dropped changes = %v", fields)
	}

	report := FormatDiff(old, updated, changes)
	if !strings.Contains(report, "1 -> 2") {
		t.Errorf("report should mention versions: %s", report)
	}
}

func TestDiffIdenticalCatalogs(t *testing.T) {
	if changes := Diff(SPRSUN(), SPRSUN()); len(changes) != 0 {
		t.Errorf("identical catalogs should produce no changes, got %v", changes)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	catalog := SPRSUN()

	data, err := DumpYAML(catalog)
	if err != nil {
		t.Fatalf("DumpYAML failed: %v", err)
	}

	loaded, err := LoadYAML(data)
	if err != nil {
		t.Fatalf("LoadYAML failed: %v", err)
	}

	if loaded.Version() != catalog.Version() {
		t.Errorf("version = %s, expected %s", loaded.Version(), catalog.Version())
	}
	if changes := Diff(catalog, loaded); len(changes) != 0 {
		t.Errorf("round trip changed the catalog: %v", changes)
	}
}

func TestLoadYAMLRejectsStaleSnapshot(t *testing.T) {
	snapshot := `
version: "old"
registers:
  - name: unit_cop
    address: 389
    words: 2
    encoding: float32_be
    group: power
blocks:
  - group: power
    start: 372
    count: 18
`
	if _, err := LoadYAML([]byte(snapshot)); err == nil {
		t.Error("snapshot with an uncovered entry should be rejected")
	}
}

func TestLoadYAMLRejectsInconsistentSnapshot(t *testing.T) {
	// A snapshot passes the same validation as the built-in catalog, so
	// a width that contradicts the encoding never reaches the mapper.
	snapshot := `
version: "old"
registers:
  - name: unit_cop
    address: 389
    words: 1
    encoding: float32_be
    group: power
blocks:
  - group: power
    start: 389
    count: 2
`
	if _, err := LoadYAML([]byte(snapshot)); err == nil {
		t.Error("snapshot with a width mismatch should be rejected")
	}
}
