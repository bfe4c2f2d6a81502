package main

import (
	"fmt"

	"prism-api/internal/domain"
	"prism-api/internal/service"
)

// auditItems revisa la coherencia interna del banco: dimensiones y tipos
// validos, opciones completas en items de elección, tags bien formados y
// pesos dentro de rango. Devuelve un issue por problema encontrado.
func auditItems(items []domain.Item) []string {
	var issues []string
	validAxes := make(map[string]bool)
	for _, key := range service.AxisKeys() {
		validAxes[key] = true
	}

	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID == "" {
			issues = append(issues, "item without id")
			continue
		}
		if seen[it.ID] {
			issues = append(issues, fmt.Sprintf("%s: duplicate item id", it.ID))
			continue
		}
		seen[it.ID] = true

		if !it.Dimension.Valid() {
			issues = append(issues, fmt.Sprintf("%s: unknown dimension %q", it.ID, it.Dimension))
		}
		switch it.Type {
		case domain.ItemTypeRating, domain.ItemTypeFrequency:
			if len(it.Options) > 0 {
				issues = append(issues, fmt.Sprintf("%s: scale item carries options", it.ID))
			}
		case domain.ItemTypeForcedChoice, domain.ItemTypeSituational:
			if len(it.Options) < 2 {
				issues = append(issues, fmt.Sprintf("%s: choice item needs at least 2 options, has %d", it.ID, len(it.Options)))
			}
			optValues := make(map[string]bool, len(it.Options))
			for _, opt := range it.Options {
				if opt.Value == "" {
					issues = append(issues, fmt.Sprintf("%s: option without value", it.ID))
					continue
				}
				if optValues[opt.Value] {
					issues = append(issues, fmt.Sprintf("%s: duplicate option value %q", it.ID, opt.Value))
				}
				optValues[opt.Value] = true
				if opt.Score < 0 || opt.Score > 100 {
					issues = append(issues, fmt.Sprintf("%s: option %q score %.1f outside [0,100]", it.ID, opt.Value, opt.Score))
				}
			}
		default:
			issues = append(issues, fmt.Sprintf("%s: unknown item type %q", it.ID, it.Type))
		}

		if it.Weight < 0 {
			issues = append(issues, fmt.Sprintf("%s: negative weight %.2f", it.ID, it.Weight))
		}

		for _, tag := range it.Frameworks {
			if key, ok := domain.ParseAxisTag(tag); ok {
				if !validAxes[key] {
					issues = append(issues, fmt.Sprintf("%s: axis tag %q names unknown axis", it.ID, tag))
				}
				continue
			}
			if _, ok := domain.ParseTypeTag(tag); ok {
				continue
			}
			if !domain.ValidFramework(tag) {
				issues = append(issues, fmt.Sprintf("%s: unrecognized tag %q", it.ID, tag))
			}
		}
	}
	return issues
}

// auditCoverage corre la selección real por tier y framework y devuelve
// los reportes que no pasan. El banco puede ser válido item por item y
// aún así no alcanzar para un tier.
func auditCoverage(items []domain.Item) []service.SelectionReport {
	selector := service.QuestionSelector{}
	frameworks := []string{domain.FrameworkPrism, domain.FrameworkFourAxis, domain.FrameworkNineType}

	var failed []service.SelectionReport
	for _, tier := range []string{domain.TierQuick, domain.TierStandard, domain.TierComprehensive} {
		selected, err := selector.Select(tier, frameworks, items)
		if err != nil {
			continue
		}
		report, err := selector.Validate(selected, tier, frameworks)
		if err != nil {
			continue
		}
		if !report.Passed {
			failed = append(failed, report)
		}
	}
	return failed
}
