package domain

import "time"

// DimensionTarget es el objetivo por dimensión de un perfil ideal:
// percentil deseado 0-100 y peso de importancia (1.0 = neutral).
type DimensionTarget struct {
	Target float64 `json:"target"`
	Weight float64 `json:"weight"`
}

// IdealProfile es el perfil objetivo contra el que se calcula el fit.
// Se autora externamente (empleador o analisis de descripción de puesto)
// y el core nunca lo muta.
type IdealProfile struct {
	ID         string                        `json:"id,omitempty"`
	Name       string                        `json:"name,omitempty"`
	OwnerID    string                        `json:"owner_id,omitempty"`
	Dimensions map[Dimension]DimensionTarget `json:"dimensions"`
	CreatedAt  time.Time                     `json:"created_at,omitempty"`
}

// DimensionFit es el detalle de fit de una dimensión comparada.
type DimensionFit struct {
	Dimension Dimension `json:"dimension"`
	Fit       float64   `json:"fit"`
	Candidate float64   `json:"candidate"`
	Target    float64   `json:"target"`
	Weight    float64   `json:"weight"`
	Note      string    `json:"note,omitempty"`
}

// FitHighlight señala una fortaleza o preocupacion derivada del breakdown.
type FitHighlight struct {
	Dimension Dimension `json:"dimension"`
	Fit       float64   `json:"fit"`
	Note      string    `json:"note"`
}

// FitResult es la salida del cálculo de compatibilidad candidato/perfil.
type FitResult struct {
	Overall   float64        `json:"overall"`
	Rating    string         `json:"rating"`
	Breakdown []DimensionFit `json:"breakdown"`
	Strengths []FitHighlight `json:"strengths"`
	Concerns  []FitHighlight `json:"concerns"`
}

// Etiquetas de rating por umbral. Deben coincidir exactamente con los
// umbrales 80/60/40 para reproducibilidad de tests.
const (
	FitRatingExcellent = "excellent"
	FitRatingGood      = "good"
	FitRatingModerate  = "moderate"
	FitRatingLow       = "low"
)
