package domain

import "strings"

// Dimension es uno de los siete ejes de personalidad del modelo PRISM.
type Dimension string

const (
	DimOpenness          Dimension = "openness"
	DimConscientiousness Dimension = "conscientiousness"
	DimExtraversion      Dimension = "extraversion"
	DimAgreeableness     Dimension = "agreeableness"
	DimResilience        Dimension = "resilience"
	DimHonesty           Dimension = "honesty"
	DimAdaptability      Dimension = "adaptability"
)

// AllDimensions fija el orden canonico usado en selección y reportes.
var AllDimensions = []Dimension{
	DimOpenness,
	DimConscientiousness,
	DimExtraversion,
	DimAgreeableness,
	DimResilience,
	DimHonesty,
	DimAdaptability,
}

// dimensionAliases tolera las variantes de escritura que llegan de
// productores externos (perfiles ideales, bancos exportados).
var dimensionAliases = map[string]Dimension{
	"openness":              DimOpenness,
	"conscientiousness":     DimConscientiousness,
	"extraversion":          DimExtraversion,
	"extroversion":          DimExtraversion,
	"agreeableness":         DimAgreeableness,
	"resilience":            DimResilience,
	"emotional_resilience":  DimResilience,
	"emotional resilience":  DimResilience,
	"emotional-resilience":  DimResilience,
	"emotional_stability":   DimResilience,
	"honesty":               DimHonesty,
	"honesty_humility":      DimHonesty,
	"honesty humility":      DimHonesty,
	"honesty-humility":      DimHonesty,
	"humility":              DimHonesty,
	"adaptability":          DimAdaptability,
	"flexibility":           DimAdaptability,
}

// ParseDimension normaliza una clave externa al enum canonico.
// Devuelve false para claves desconocidas; el caller decide ignorar o fallar.
func ParseDimension(raw string) (Dimension, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "-", "_")
	d, ok := dimensionAliases[key]
	if !ok {
		// segunda pasada tolerando espacios
		d, ok = dimensionAliases[strings.ReplaceAll(key, "_", " ")]
	}
	return d, ok
}

// Valid indica si la dimensión pertenece al enum cerrado.
func (d Dimension) Valid() bool {
	for _, known := range AllDimensions {
		if d == known {
			return true
		}
	}
	return false
}
