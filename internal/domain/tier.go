package domain

// Tiers de evaluación: presets de largo/profundidad del cuestionario.
const (
	TierQuick         = "quick"
	TierStandard      = "standard"
	TierComprehensive = "comprehensive"
)

// TierConfig fija el presupuesto total y los mínimos de cobertura por tier.
// Los valores son defaults de producto, no constantes sagradas.
type TierConfig struct {
	Total           int // presupuesto total de preguntas
	MinPerDimension int
	MinPerAxis      int // mínimo de items por eje del framework de cuatro ejes
	MinPerType      int // mínimo de items por tipo del framework de nueve tipos
}

var tierConfigs = map[string]TierConfig{
	TierQuick:         {Total: 20, MinPerDimension: 2, MinPerAxis: 2, MinPerType: 1},
	TierStandard:      {Total: 42, MinPerDimension: 4, MinPerAxis: 4, MinPerType: 2},
	TierComprehensive: {Total: 70, MinPerDimension: 8, MinPerAxis: 6, MinPerType: 4},
}

// TierConfigFor devuelve la configuración del tier; false si no existe.
func TierConfigFor(tier string) (TierConfig, bool) {
	cfg, ok := tierConfigs[tier]
	return cfg, ok
}

// ValidFramework valida una clave de framework solicitada.
func ValidFramework(fw string) bool {
	switch fw {
	case FrameworkPrism, FrameworkFourAxis, FrameworkNineType:
		return true
	}
	return false
}
