package domain

import "time"

// DimensionScore es el resultado agregado de una dimensión.
// Invariante: CILow <= Percentile <= CIHigh, todo dentro de [0,100].
type DimensionScore struct {
	Dimension  Dimension `json:"dimension"`
	Raw        float64   `json:"raw"`
	Percentile float64   `json:"percentile"`
	CILow      float64   `json:"ci_low"`
	CIHigh     float64   `json:"ci_high"`
	Responses  int       `json:"responses"`
}

// AxisResult es la resolucion de un eje binario del framework de cuatro ejes.
// Score vive en 0-10 con 5.0 como punto de empate.
type AxisResult struct {
	Axis       string  `json:"axis"`
	Pole       string  `json:"pole"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Items      int     `json:"items"`
}

// FourAxisMapping agrupa los cuatro ejes y el código de tipo resultante.
type FourAxisMapping struct {
	Axes []AxisResult `json:"axes"`
	Code string       `json:"code"`
}

// NineTypeMapping es la inferencia del sistema circular de nueve tipos.
// Invariante: Distribution suma 1 (salvo redondeo) y Primary es el argmax.
type NineTypeMapping struct {
	Primary         int             `json:"primary"`
	Probability     float64         `json:"probability"`
	Wing            int             `json:"wing"`
	WingProbability float64         `json:"wing_probability"`
	Distribution    map[int]float64 `json:"distribution"`
}

// FrameworkMappings reune los mapeos secundarios calculados.
type FrameworkMappings struct {
	FourAxis *FourAxisMapping `json:"four_axis,omitempty"`
	NineType *NineTypeMapping `json:"nine_type,omitempty"`
}

// AssessmentResult es la salida completa de una corrida de scoring,
// tal como se persiste y se devuelve por la API.
type AssessmentResult struct {
	ID         string            `json:"id"`
	SessionID  string            `json:"session_id"`
	UserID     string            `json:"user_id,omitempty"`
	Dimensions []DimensionScore  `json:"dimensions"`
	Frameworks FrameworkMappings `json:"frameworks"`
	Skipped    []string          `json:"skipped,omitempty"` // item ids descartados por malformados
	CreatedAt  time.Time         `json:"created_at"`
}
