package service

import (
	"math"
	"strings"

	"prism-api/internal/domain"
)

// Inferencia del framework de cuatro ejes. Hay dos caminos de cálculo:
// por items taggeados ("axis:<key>") y por scores dimensionales. Ambos
// pasan por la misma tabla de polaridad (polarity.go) así que coinciden
// sobre datos consistentes; el camino por items manda cuando hay items
// suficientes porque captura el peso de discriminacion por reactivo.

// axisConfidence crece con la distancia al punto medio 5.0 y con la
// cantidad de items que contribuyeron. Constantes tunables.
func axisConfidence(score float64, items int) float64 {
	dist := math.Abs(score - 5.0)
	if dist > 5 {
		dist = 5
	}
	n := float64(items)
	if n > 8 {
		n = 8
	}
	conf := 0.5 + 0.4*(dist/5) + 0.1*(n/8)
	if conf > 0.99 {
		conf = 0.99
	}
	return conf
}

// resolvePole aplica el desempate documentado: 5.0 exacto cae en el polo
// baseline configurado del eje, nunca al azar.
func resolvePole(spec axisSpec, score float64) string {
	switch {
	case score > 5:
		return spec.PoleHigh
	case score < 5:
		return spec.PoleLow
	default:
		return spec.Baseline
	}
}

// inferFourAxis calcula los cuatro ejes a partir de respuestas taggeadas,
// cayendo al camino dimensional cuando un eje no tiene items taggeados.
// Nunca falla: un eje sin datos queda neutral en 5.0 con confianza mínima.
func inferFourAxis(scored []scoredResponse, dims []domain.DimensionScore) *domain.FourAxisMapping {
	byDim := make(map[domain.Dimension]domain.DimensionScore, len(dims))
	for _, d := range dims {
		byDim[d.Dimension] = d
	}

	mapping := &domain.FourAxisMapping{}
	var code strings.Builder
	for _, spec := range fourAxisTable {
		result := axisFromItems(spec, scored)
		if result.Items == 0 {
			result = axisFromDimensions(spec, byDim)
		}
		result.Pole = resolvePole(spec, result.Score)
		result.Confidence = axisConfidence(result.Score, result.Items)
		mapping.Axes = append(mapping.Axes, result)
		code.WriteString(result.Pole)
	}
	mapping.Code = code.String()
	return mapping
}

// axisFromItems promedia (ponderado por discriminacion) los valores de
// respuesta vistos desde el eje: reverse de item + inversión de dimensión.
// El peso de cada item se escala además por la fracción de mezcla de su
// dimensión en el eje, para que ambos caminos de cálculo usen la misma
// tabla (estructura: 60% conscientiousness, 40% adaptability).
func axisFromItems(spec axisSpec, scored []scoredResponse) domain.AxisResult {
	tag := domain.AxisTag(spec.Key)
	var weightedSum, weightSum float64
	var count int
	for _, sr := range scored {
		if !sr.item.HasTag(tag) {
			continue
		}
		value, err := axisItemValue(spec.Key, sr.item, sr.resp)
		if err != nil {
			continue
		}
		w := sr.item.EffectiveWeight()
		if b, ok := axisBlendFor(spec.Key, sr.item.Dimension); ok {
			w *= b.Weight
		}
		weightedSum += value * w
		weightSum += w
		count++
	}
	if count == 0 || weightSum == 0 {
		return domain.AxisResult{Axis: spec.Key, Score: 5.0}
	}
	return domain.AxisResult{
		Axis:  spec.Key,
		Score: (weightedSum / weightSum) / 10,
		Items: count,
	}
}

// axisFromDimensions deriva el eje desde los percentiles dimensionales,
// mezclando según la tabla (p.ej. estructura = 60% conscientiousness
// directo + 40% adaptability invertido). Dimensiones sin respuestas no
// aportan; sin ninguna contribución el eje queda neutral.
func axisFromDimensions(spec axisSpec, byDim map[domain.Dimension]domain.DimensionScore) domain.AxisResult {
	var blended, weightSum float64
	var items int
	for _, b := range spec.Blends {
		score, ok := byDim[b.Dimension]
		if !ok || score.Responses == 0 {
			continue
		}
		value := score.Percentile
		if b.Inverted {
			value = 100 - value
		}
		blended += value * b.Weight
		weightSum += b.Weight
		items += score.Responses
	}
	if weightSum == 0 {
		return domain.AxisResult{Axis: spec.Key, Score: 5.0}
	}
	return domain.AxisResult{
		Axis:  spec.Key,
		Score: (blended / weightSum) / 10,
		Items: items,
	}
}
