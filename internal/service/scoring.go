package service

import (
	"math"
	"sort"

	"prism-api/internal/domain"
)

// Normalizer convierte un score crudo 0-100 en percentil poblacional.
// El default es identidad; con normas externas se usa NormTableNormalizer.
type Normalizer interface {
	Percentile(dim domain.Dimension, raw float64) float64
}

type identityNormalizer struct{}

func (identityNormalizer) Percentile(_ domain.Dimension, raw float64) float64 {
	return clampPercentile(raw)
}

// NormEntry es la media y desviacion poblacional de una dimensión.
type NormEntry struct {
	Mean float64
	SD   float64
}

// NormTableNormalizer deriva percentiles vía z-score contra normas externas.
type NormTableNormalizer struct {
	Norms map[domain.Dimension]NormEntry
}

func (n NormTableNormalizer) Percentile(dim domain.Dimension, raw float64) float64 {
	entry, ok := n.Norms[dim]
	if !ok || entry.SD <= 0 {
		return clampPercentile(raw)
	}
	z := (raw - entry.Mean) / entry.SD
	return clampPercentile(50 * (1 + math.Erf(z/math.Sqrt2)))
}

// ScoringEngine convierte respuestas en scores dimensionales y mapeos de
// framework. Es un value struct puro al estilo de los engines del servicio:
// sin estado compartido, seguro para llamadas concurrentes.
type ScoringEngine struct {
	Norms Normalizer
	// BaseMargin controla el ancho del intervalo de confianza:
	// margin = BaseMargin / sqrt(n). Default 30.
	BaseMargin float64
}

// ScoreOutput es la salida pura del engine, sin identidad ni timestamps.
type ScoreOutput struct {
	Dimensions []domain.DimensionScore
	Frameworks domain.FrameworkMappings
	Skipped    []string
}

const defaultBaseMargin = 30.0

// Score agrega la lista de respuestas contra el snapshot del banco.
// Respuestas malformadas o con item desconocido se descartan y se reportan
// en Skipped; nunca abortan la corrida. Con cero respuestas cada dimensión
// queda en el punto neutral 50 con margen máximo.
func (e ScoringEngine) Score(responses []domain.Response, bank []domain.Item) ScoreOutput {
	norms := e.Norms
	if norms == nil {
		norms = identityNormalizer{}
	}
	baseMargin := e.BaseMargin
	if baseMargin <= 0 {
		baseMargin = defaultBaseMargin
	}

	byID := make(map[string]domain.Item, len(bank))
	for _, item := range bank {
		byID[item.ID] = item
	}

	type accum struct {
		weightedSum float64
		weightSum   float64
		count       int
	}
	dims := make(map[domain.Dimension]*accum, len(domain.AllDimensions))
	for _, d := range domain.AllDimensions {
		dims[d] = &accum{}
	}

	var scored []scoredResponse
	var skipped []string
	seen := make(map[string]bool, len(responses))
	for _, resp := range responses {
		item, ok := byID[resp.ItemID]
		if !ok || seen[resp.ItemID] {
			skipped = append(skipped, resp.ItemID)
			continue
		}
		acc, ok := dims[item.Dimension]
		if !ok {
			// dimensión fuera del enum cerrado: item corrupto, se descarta
			skipped = append(skipped, resp.ItemID)
			continue
		}
		value, err := normalizedItemValue(item, resp)
		if err != nil {
			skipped = append(skipped, resp.ItemID)
			continue
		}
		seen[resp.ItemID] = true
		scored = append(scored, scoredResponse{item: item, resp: resp, value: value})

		w := item.EffectiveWeight()
		acc.weightedSum += value * w
		acc.weightSum += w
		acc.count++
	}

	out := ScoreOutput{Skipped: skipped}
	for _, d := range domain.AllDimensions {
		acc := dims[d]
		score := domain.DimensionScore{Dimension: d, Responses: acc.count}
		if acc.count == 0 || acc.weightSum == 0 {
			score.Raw = 50
			score.Percentile = 50
			score.CILow = 0
			score.CIHigh = 100
		} else {
			score.Raw = acc.weightedSum / acc.weightSum
			score.Percentile = norms.Percentile(d, score.Raw)
			margin := baseMargin / math.Sqrt(float64(acc.count))
			score.CILow = clampPercentile(score.Percentile - margin)
			score.CIHigh = clampPercentile(score.Percentile + margin)
		}
		out.Dimensions = append(out.Dimensions, score)
	}

	out.Frameworks.FourAxis = inferFourAxis(scored, out.Dimensions)
	out.Frameworks.NineType = inferNineType(scored)

	sort.Strings(out.Skipped)
	return out
}

// scoredResponse es una respuesta validada con su valor 0-100 ya
// normalizado a nivel item (reverse aplicado, sin corrección de eje).
type scoredResponse struct {
	item  domain.Item
	resp  domain.Response
	value float64
}

func clampPercentile(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
