package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"prism-api/internal/domain"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

// bank_check audita un banco de items exportado a JSON: coherencia item
// por item y cobertura real de cada tier. Sale con código 1 si el banco
// no está listo para producción.
func main() {
	path := flag.String("bank", "bank.json", "ruta al JSON del banco de items")
	flag.Parse()

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("reading bank: %v", err)
	}

	var items []domain.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Fatalf("decoding bank: %v", err)
	}

	fmt.Printf("%s[bank]%s %d items loaded from %s\n", colorCyan, colorReset, len(items), *path)

	issues := auditItems(items)
	for _, issue := range issues {
		fmt.Printf("%s[issue]%s %s\n", colorRed, colorReset, issue)
	}

	failed := auditCoverage(items)
	for _, report := range failed {
		fmt.Printf("%s[coverage]%s tier %s selects %d items but does not meet minimums\n",
			colorRed, colorReset, report.Tier, report.TotalSelected)
		for dim, ok := range report.DimensionOK {
			if !ok {
				fmt.Printf("  dimension %s: %d items\n", dim, report.DimensionCounts[dim])
			}
		}
		for tag, ok := range report.TagOK {
			if !ok {
				fmt.Printf("  tag %s: %d items\n", tag, report.TagCounts[tag])
			}
		}
	}

	if len(issues) > 0 || len(failed) > 0 {
		fmt.Printf("%s[result]%s bank check FAILED: %d issues, %d tiers short\n",
			colorRed, colorReset, len(issues), len(failed))
		os.Exit(1)
	}
	fmt.Printf("%s[result]%s bank check passed\n", colorGreen, colorReset)
}
