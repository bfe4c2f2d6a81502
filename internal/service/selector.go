package service

import (
	"errors"
	"fmt"
	"sort"

	"prism-api/internal/domain"
)

// QuestionSelector arma el subconjunto del banco para un tier y un set de
// frameworks solicitados. Es determinista: el mismo banco y los mismos
// parámetros devuelven siempre la misma lista ordenada, lo que habilita
// cacheo y tests reproducibles.
type QuestionSelector struct{}

var (
	ErrUnknownTier      = errors.New("unknown assessment tier")
	ErrUnknownFramework = errors.New("unknown framework")
	ErrNoFrameworks     = errors.New("at least one framework is required")
)

// Select implementa la selección por cuotas:
//  1. particion por dimensión
//  2. mínimo por dimensión prefiriendo items taggeados para más frameworks
//  3. segunda pasada para completar cobertura de tags por eje/tipo
//  4. relleno round-robin por dimensión hasta el presupuesto
//
// Tier o framework desconocido es error del caller y falla rapido; un banco
// pobre NO es error: se devuelve lo que haya y Validate lo reporta.
func (QuestionSelector) Select(tier string, frameworks []string, bank []domain.Item) ([]domain.Item, error) {
	cfg, ok := domain.TierConfigFor(tier)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	if len(frameworks) == 0 {
		return nil, ErrNoFrameworks
	}
	requested := make(map[string]bool, len(frameworks))
	for _, fw := range frameworks {
		if !domain.ValidFramework(fw) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFramework, fw)
		}
		requested[fw] = true
	}

	ordered := orderedBank(bank)

	// particion por dimensión preservando el orden del banco
	byDim := make(map[domain.Dimension][]domain.Item, len(domain.AllDimensions))
	for _, item := range ordered {
		byDim[item.Dimension] = append(byDim[item.Dimension], item)
	}

	selected := make(map[string]bool)
	var result []domain.Item
	take := func(item domain.Item) {
		if selected[item.ID] || len(result) >= cfg.Total {
			return
		}
		selected[item.ID] = true
		result = append(result, item)
	}

	// paso 2: mínimos por dimensión, prefiriendo items que cubren más
	// frameworks solicitados (orden estable dentro de cada puntaje)
	for _, dim := range domain.AllDimensions {
		pool := append([]domain.Item(nil), byDim[dim]...)
		sort.SliceStable(pool, func(i, j int) bool {
			return frameworkCoverage(pool[i], requested) > frameworkCoverage(pool[j], requested)
		})
		for i := 0; i < len(pool) && i < cfg.MinPerDimension; i++ {
			take(pool[i])
		}
	}

	// paso 3: cobertura de tags por framework solicitado
	for _, tag := range requiredTags(requested, cfg) {
		have := 0
		for _, item := range result {
			if item.HasTag(tag.tag) {
				have++
			}
		}
		for _, item := range ordered {
			if have >= tag.min || len(result) >= cfg.Total {
				break
			}
			if !selected[item.ID] && item.HasTag(tag.tag) {
				take(item)
				have++
			}
		}
	}

	// paso 4: relleno round-robin por dimensión para mantener balance
	cursors := make(map[domain.Dimension]int, len(domain.AllDimensions))
	for len(result) < cfg.Total {
		advanced := false
		for _, dim := range domain.AllDimensions {
			if len(result) >= cfg.Total {
				break
			}
			pool := byDim[dim]
			i := cursors[dim]
			for i < len(pool) && selected[pool[i].ID] {
				i++
			}
			if i < len(pool) {
				take(pool[i])
				cursors[dim] = i + 1
				advanced = true
			} else {
				cursors[dim] = i
			}
		}
		if !advanced {
			break // banco agotado por debajo del presupuesto
		}
	}

	// orden final estable por el orden original del banco
	rank := make(map[string]int, len(ordered))
	for i, item := range ordered {
		rank[item.ID] = i
	}
	sort.SliceStable(result, func(i, j int) bool {
		return rank[result[i].ID] < rank[result[j].ID]
	})
	return result, nil
}

// SelectionReport es el contrato de validación: reporta, no lanza.
// El caller decide si sirve best-effort o bloquea.
type SelectionReport struct {
	Tier            string                    `json:"tier"`
	TotalSelected   int                       `json:"total_selected"`
	BudgetOK        bool                      `json:"budget_ok"`
	DimensionCounts map[domain.Dimension]int  `json:"dimension_counts"`
	DimensionOK     map[domain.Dimension]bool `json:"dimension_ok"`
	TagCounts       map[string]int            `json:"tag_counts"`
	TagOK           map[string]bool           `json:"tag_ok"`
	Passed          bool                      `json:"passed"`
}

// Validate chequea la selección contra los requisitos del tier y de los
// frameworks solicitados. Dimensiones sin items marcan fail pero el
// reporte siempre se construye completo.
func (QuestionSelector) Validate(items []domain.Item, tier string, frameworks []string) (SelectionReport, error) {
	cfg, ok := domain.TierConfigFor(tier)
	if !ok {
		return SelectionReport{}, fmt.Errorf("%w: %q", ErrUnknownTier, tier)
	}
	requested := make(map[string]bool, len(frameworks))
	for _, fw := range frameworks {
		if !domain.ValidFramework(fw) {
			return SelectionReport{}, fmt.Errorf("%w: %q", ErrUnknownFramework, fw)
		}
		requested[fw] = true
	}

	report := SelectionReport{
		Tier:            tier,
		TotalSelected:   len(items),
		BudgetOK:        len(items) <= cfg.Total,
		DimensionCounts: make(map[domain.Dimension]int),
		DimensionOK:     make(map[domain.Dimension]bool),
		TagCounts:       make(map[string]int),
		TagOK:           make(map[string]bool),
		Passed:          true,
	}
	for _, item := range items {
		report.DimensionCounts[item.Dimension]++
	}
	for _, dim := range domain.AllDimensions {
		okDim := report.DimensionCounts[dim] >= cfg.MinPerDimension
		report.DimensionOK[dim] = okDim
		if !okDim {
			report.Passed = false
		}
	}
	for _, tag := range requiredTags(requested, cfg) {
		count := 0
		for _, item := range items {
			if item.HasTag(tag.tag) {
				count++
			}
		}
		report.TagCounts[tag.tag] = count
		okTag := count >= tag.min
		report.TagOK[tag.tag] = okTag
		if !okTag {
			report.Passed = false
		}
	}
	if !report.BudgetOK {
		report.Passed = false
	}
	return report, nil
}

type tagRequirement struct {
	tag string
	min int
}

// requiredTags traduce los frameworks solicitados a cuotas de tags.
func requiredTags(requested map[string]bool, cfg domain.TierConfig) []tagRequirement {
	var tags []tagRequirement
	if requested[domain.FrameworkFourAxis] {
		for _, key := range AxisKeys() {
			tags = append(tags, tagRequirement{tag: domain.AxisTag(key), min: cfg.MinPerAxis})
		}
	}
	if requested[domain.FrameworkNineType] {
		for t := 1; t <= 9; t++ {
			tags = append(tags, tagRequirement{tag: domain.TypeTag(t), min: cfg.MinPerType})
		}
	}
	return tags
}

// frameworkCoverage cuenta cuantos frameworks solicitados cubre un item.
func frameworkCoverage(item domain.Item, requested map[string]bool) int {
	count := 0
	if requested[domain.FrameworkPrism] && item.HasTag(domain.FrameworkPrism) {
		count++
	}
	if requested[domain.FrameworkFourAxis] {
		for _, tag := range item.Frameworks {
			if _, ok := domain.ParseAxisTag(tag); ok {
				count++
				break
			}
		}
	}
	if requested[domain.FrameworkNineType] {
		for _, tag := range item.Frameworks {
			if _, ok := domain.ParseTypeTag(tag); ok {
				count++
				break
			}
		}
	}
	return count
}

// orderedBank devuelve una copia del banco ordenada por order_index,
// estable sobre el orden de llegada. El core trabaja sobre la copia para
// no depender de que el caller congele el slice.
func orderedBank(bank []domain.Item) []domain.Item {
	ordered := append([]domain.Item(nil), bank...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})
	return ordered
}
