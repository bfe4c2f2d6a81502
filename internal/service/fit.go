package service

import (
	"fmt"
	"math"

	"prism-api/internal/domain"
)

// FitCalculator compara scores dimensionales de un candidato contra un
// perfil ideal y produce el score de compatibilidad con su desglose.
// Value struct puro, sin estado.
type FitCalculator struct {
	// PenaltyFactor castiga la desviacion respecto del target. Default 1.2.
	PenaltyFactor float64
}

const (
	defaultPenaltyFactor = 1.2
	fitStrengthMin       = 85.0
	fitConcernMax        = 50.0
	neutralFit           = 50.0

	maxProfileWeight = 1.5
)

// Calculate pondera el fit por dimensión por su peso y renormaliza sobre
// las dimensiones efectivamente comparadas. Una dimensión del perfil sin
// score del candidato se salta; sin solapamiento el resultado es el
// neutral documentado (50), nunca una division por cero.
func (c FitCalculator) Calculate(scores []domain.DimensionScore, profile domain.IdealProfile) domain.FitResult {
	penalty := c.PenaltyFactor
	if penalty <= 0 {
		penalty = defaultPenaltyFactor
	}

	byDim := make(map[domain.Dimension]domain.DimensionScore, len(scores))
	for _, s := range scores {
		byDim[s.Dimension] = s
	}

	result := domain.FitResult{}
	var weightedSum, weightSum float64
	// orden canonico para salida determinista
	for _, dim := range domain.AllDimensions {
		target, ok := profile.Dimensions[dim]
		if !ok {
			continue
		}
		candidate, ok := byDim[dim]
		if !ok {
			continue
		}

		deviation := math.Abs(candidate.Percentile-target.Target) * penalty
		if deviation > 100 {
			deviation = 100
		}
		fit := 100 - deviation

		entry := domain.DimensionFit{
			Dimension: dim,
			Fit:       fit,
			Candidate: candidate.Percentile,
			Target:    target.Target,
			Weight:    target.Weight,
			Note:      fitNote(dim, candidate.Percentile, target.Target),
		}
		result.Breakdown = append(result.Breakdown, entry)

		weightedSum += fit * target.Weight
		weightSum += target.Weight

		if fit >= fitStrengthMin {
			result.Strengths = append(result.Strengths, domain.FitHighlight{
				Dimension: dim, Fit: fit, Note: entry.Note,
			})
		}
		if fit <= fitConcernMax {
			result.Concerns = append(result.Concerns, domain.FitHighlight{
				Dimension: dim, Fit: fit, Note: entry.Note,
			})
		}
	}

	if weightSum == 0 {
		result.Overall = neutralFit
	} else {
		result.Overall = weightedSum / weightSum
	}
	result.Rating = fitRating(result.Overall)
	return result
}

// fitRating aplica los umbrales exactos 80/60/40.
func fitRating(overall float64) string {
	switch {
	case overall >= 80:
		return domain.FitRatingExcellent
	case overall >= 60:
		return domain.FitRatingGood
	case overall >= 40:
		return domain.FitRatingModerate
	default:
		return domain.FitRatingLow
	}
}

// fitNote arma la explicacion templada según la direccion del desvio.
func fitNote(dim domain.Dimension, candidate, target float64) string {
	switch {
	case candidate > target:
		return fmt.Sprintf("%s above the role target (%.0f vs %.0f)", dim, candidate, target)
	case candidate < target:
		return fmt.Sprintf("%s below the role target (%.0f vs %.0f)", dim, candidate, target)
	default:
		return fmt.Sprintf("%s matches the role target (%.0f)", dim, target)
	}
}

// NormalizeIdealProfile es la única costura tolerante del cálculo de fit:
// acepta diccionarios externos con claves heterogeneas y los lleva al enum
// canonico. Claves desconocidas se ignoran (forward-compatible); targets se
// recortan a [0,100]; pesos faltantes o invalidos quedan en 1.0 y se
// recortan a [0, 1.5].
func NormalizeIdealProfile(raw map[string]any) domain.IdealProfile {
	profile := domain.IdealProfile{
		Dimensions: make(map[domain.Dimension]domain.DimensionTarget),
	}
	for key, value := range raw {
		dim, ok := domain.ParseDimension(key)
		if !ok {
			continue
		}
		target, ok := parseTarget(value)
		if !ok {
			continue
		}
		profile.Dimensions[dim] = target
	}
	return profile
}

// parseTarget acepta los dos shapes que producen los origenes externos:
// un número pelado (peso 1.0) o un objeto {target, weight}.
func parseTarget(value any) (domain.DimensionTarget, bool) {
	switch v := value.(type) {
	case float64:
		return domain.DimensionTarget{Target: clampPercentile(v), Weight: 1.0}, true
	case int:
		return domain.DimensionTarget{Target: clampPercentile(float64(v)), Weight: 1.0}, true
	case map[string]any:
		target, ok := numberField(v, "target")
		if !ok {
			return domain.DimensionTarget{}, false
		}
		weight, ok := numberField(v, "weight")
		if !ok {
			weight = 1.0
		}
		return domain.DimensionTarget{
			Target: clampPercentile(target),
			Weight: clampWeight(weight),
		}, true
	default:
		return domain.DimensionTarget{}, false
	}
}

func numberField(m map[string]any, key string) (float64, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func clampWeight(w float64) float64 {
	if w < 0 {
		return 0
	}
	if w > maxProfileWeight {
		return maxProfileWeight
	}
	return w
}
