package main

import (
	"fmt"
	"strings"
	"testing"

	"prism-api/internal/domain"
)

func cleanBank(perDim int) []domain.Item {
	var bank []domain.Item
	idx := 0
	for i := 0; i < perDim; i++ {
		for _, dim := range domain.AllDimensions {
			bank = append(bank, domain.Item{
				ID:         fmt.Sprintf("q%03d", idx),
				Text:       fmt.Sprintf("item %d", idx),
				Type:       domain.ItemTypeRating,
				Dimension:  dim,
				Weight:     1.0,
				Frameworks: []string{domain.FrameworkPrism},
				OrderIndex: idx,
			})
			idx++
		}
	}
	return bank
}

func TestAuditItems_CleanBank(t *testing.T) {
	if issues := auditItems(cleanBank(4)); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}

func TestAuditItems_FlagsProblems(t *testing.T) {
	bank := cleanBank(1)
	bank = append(bank,
		domain.Item{ID: "q000", Type: domain.ItemTypeRating, Dimension: domain.DimOpenness},
		domain.Item{ID: "bad-dim", Type: domain.ItemTypeRating, Dimension: "charisma"},
		domain.Item{ID: "bad-type", Type: "essay", Dimension: domain.DimOpenness},
		domain.Item{ID: "bad-choice", Type: domain.ItemTypeForcedChoice, Dimension: domain.DimOpenness,
			Options: []domain.ItemOption{{Value: "a", Score: 120}}},
		domain.Item{ID: "bad-tag", Type: domain.ItemTypeRating, Dimension: domain.DimOpenness,
			Frameworks: []string{"axis:charm", "type:12", "astrology"}},
		domain.Item{ID: "bad-weight", Type: domain.ItemTypeRating, Dimension: domain.DimOpenness, Weight: -1},
	)

	issues := auditItems(bank)
	expected := []string{
		"duplicate item id",
		"unknown dimension",
		"unknown item type",
		"at least 2 options",
		"score 120.0 outside",
		"unknown axis",
		`unrecognized tag "type:12"`,
		`unrecognized tag "astrology"`,
		"negative weight",
	}
	for _, want := range expected {
		found := false
		for _, issue := range issues {
			if strings.Contains(issue, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no issue matching %q in %v", want, issues)
		}
	}
}

func TestAuditCoverage(t *testing.T) {
	// Banco chico: quick puede llegar pero comprehensive no.
	small := cleanBank(3)
	failed := auditCoverage(small)
	if len(failed) == 0 {
		t.Fatal("expected at least one tier to fail on a 21-item bank")
	}

	big := cleanBank(12)
	for i := range big {
		big[i].Frameworks = append(big[i].Frameworks,
			domain.AxisTag([]string{"energy", "perception", "judgment", "structure"}[i%4]),
			domain.TypeTag(i%9+1),
		)
	}
	if failed := auditCoverage(big); len(failed) != 0 {
		t.Fatalf("expected full coverage on 84-item tagged bank, failing: %+v", failed)
	}
}
