package domain

import (
	"fmt"
	"strings"
	"time"
)

// Tipos de respuesta soportados por el banco de items.
const (
	ItemTypeRating       = "rating"        // escala Likert 1-7
	ItemTypeForcedChoice = "forced_choice" // elección entre dos enunciados
	ItemTypeSituational  = "situational"   // juicio situacional multiple-choice
	ItemTypeFrequency    = "frequency"     // frecuencia conductual 1-7
)

// Frameworks evaluables. Desconocidos se rechazan en el punto de entrada.
const (
	FrameworkPrism    = "prism"
	FrameworkFourAxis = "four_axis"
	FrameworkNineType = "nine_type"
)

// Tags de framework sobre items: "prism", "axis:<key>", "type:<1-9>".
const (
	axisTagPrefix = "axis:"
	typeTagPrefix = "type:"
)

func AxisTag(key string) string { return axisTagPrefix + key }
func TypeTag(n int) string      { return fmt.Sprintf("%s%d", typeTagPrefix, n) }

// ParseAxisTag devuelve la clave de eje si el tag es "axis:<key>".
func ParseAxisTag(tag string) (string, bool) {
	if strings.HasPrefix(tag, axisTagPrefix) {
		return tag[len(axisTagPrefix):], true
	}
	return "", false
}

// ParseTypeTag devuelve el número de tipo (1-9) si el tag es "type:<n>".
func ParseTypeTag(tag string) (int, bool) {
	if !strings.HasPrefix(tag, typeTagPrefix) {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(tag[len(typeTagPrefix):], "%d", &n); err != nil {
		return 0, false
	}
	if n < 1 || n > 9 {
		return 0, false
	}
	return n, true
}

// ItemOption es una opción de un item de elección con su contribución 0-100.
type ItemOption struct {
	Value string  `json:"value"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Item es un reactivo del banco. El core lo trata como entrada inmutable;
// la autoria y persistencia viven fuera.
type Item struct {
	ID            string       `json:"id"`
	Text          string       `json:"text"`
	Type          string       `json:"type"`
	Dimension     Dimension    `json:"dimension"`
	Options       []ItemOption `json:"options,omitempty"`
	ReverseScored bool         `json:"reverse_scored"`
	Weight        float64      `json:"weight"`
	Frameworks    []string     `json:"frameworks,omitempty"`
	OrderIndex    int          `json:"order_index"`
}

// HasTag indica si el item lleva el tag de framework dado.
func (it Item) HasTag(tag string) bool {
	for _, t := range it.Frameworks {
		if t == tag {
			return true
		}
	}
	return false
}

// EffectiveWeight aplica el default de discriminacion 1.0.
func (it Item) EffectiveWeight() float64 {
	if it.Weight <= 0 {
		return 1.0
	}
	return it.Weight
}

// IsChoice indica si el item se responde eligiendo una opción.
func (it Item) IsChoice() bool {
	return it.Type == ItemTypeForcedChoice || it.Type == ItemTypeSituational
}

// Response es un item contestado dentro de una sesión de evaluación.
// Value es "1".."7" para items de escala o el value de la opción elegida.
type Response struct {
	ItemID     string    `json:"item_id"`
	Value      string    `json:"value"`
	AnsweredAt time.Time `json:"answered_at"`
}
