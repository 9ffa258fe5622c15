package main

import (
	"flag"
	"fmt"
	"os"

	"sprsun-modbus-bridge/internal/registry"
)

func main() {
	dumpPath := flag.String("dump", "", "write the built-in catalog as a YAML baseline snapshot")
	baselinePath := flag.String("baseline", "", "diff the built-in catalog against a baseline snapshot")
	flag.Parse()

	catalog := registry.SPRSUN()
	fmt.Printf("📄 Built-in catalog %s: %d quantities in %d groups\n",
		catalog.Version(), len(catalog.Entries()), len(catalog.GroupNames()))

	problems := catalog.Validate()
	if len(problems) > 0 {
		fmt.Printf("❌ Catalog failed validation with %d problem(s):\n", len(problems))
		for _, p := range problems {
			fmt.Printf("   - %v\n", p)
		}
		os.Exit(1)
	}
	fmt.Println("✅ Catalog is internally consistent")

	fmt.Println("\n🔍 Derived bulk read blocks:")
	for _, b := range catalog.Blocks() {
		fmt.Printf("   %-8s start %3d (%5d) count %2d words, %d quantities\n",
			b.Group, b.Start, uint32(b.Start)+40001, b.Count, len(catalog.GroupEntries(b.Group)))
	}

	if *dumpPath != "" {
		data, err := registry.DumpYAML(catalog)
		if err != nil {
			fmt.Printf("❌ Error serializing catalog: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*dumpPath, data, 0644); err != nil {
			fmt.Printf("❌ Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n✅ Baseline snapshot written to %s\n", *dumpPath)
	}

	if *baselinePath != "" {
		baseline, err := registry.LoadYAMLFile(*baselinePath)
		if err != nil {
			fmt.Printf("❌ Error loading baseline: %v\n", err)
			os.Exit(1)
		}
		changes := registry.Diff(baseline, catalog)
		fmt.Println()
		fmt.Print(registry.FormatDiff(baseline, catalog, changes))
		if len(changes) > 0 {
			// A changed map must be re-verified against device captures
			os.Exit(2)
		}
	}
}
