package service

import (
	"errors"
	"strconv"
	"strings"

	"prism-api/internal/domain"
)

// Este archivo concentra TODAS las reglas de polaridad del scoring:
// el flag reverse_scored a nivel item y la corrección dimensión->eje.
// Son dos inversiones independientes que se aplican en secuencia; ningún
// otro archivo debe invertir valores por su cuenta.

// axisBlend es la contribución de una dimensión a un eje.
type axisBlend struct {
	Dimension domain.Dimension
	Inverted  bool    // la dimensión predice el polo bajo del eje
	Weight    float64 // fracción de la mezcla, suma 1 por eje
}

// axisSpec define un eje binario del framework de cuatro ejes.
type axisSpec struct {
	Key      string
	PoleHigh string // score > 5
	PoleLow  string // score < 5
	Baseline string // desempate exacto en 5.0
	Blends   []axisBlend
}

// fourAxisTable: extraversion mapea directo al eje de energía; openness y
// agreeableness mapean INVERTIDOS a percepcion y juicio; estructura mezcla
// conscientiousness directo (60%) con adaptability invertido (40%).
var fourAxisTable = []axisSpec{
	{
		Key: "energy", PoleHigh: "E", PoleLow: "I", Baseline: "I",
		Blends: []axisBlend{{Dimension: domain.DimExtraversion, Weight: 1}},
	},
	{
		Key: "perception", PoleHigh: "S", PoleLow: "N", Baseline: "N",
		Blends: []axisBlend{{Dimension: domain.DimOpenness, Inverted: true, Weight: 1}},
	},
	{
		Key: "judgment", PoleHigh: "T", PoleLow: "F", Baseline: "F",
		Blends: []axisBlend{{Dimension: domain.DimAgreeableness, Inverted: true, Weight: 1}},
	},
	{
		Key: "structure", PoleHigh: "J", PoleLow: "P", Baseline: "P",
		Blends: []axisBlend{
			{Dimension: domain.DimConscientiousness, Weight: 0.6},
			{Dimension: domain.DimAdaptability, Inverted: true, Weight: 0.4},
		},
	},
}

// AxisKeys expone las claves de eje en orden canonico.
func AxisKeys() []string {
	keys := make([]string, 0, len(fourAxisTable))
	for _, spec := range fourAxisTable {
		keys = append(keys, spec.Key)
	}
	return keys
}

// axisSpecFor busca la especificación de un eje por clave.
func axisSpecFor(key string) (axisSpec, bool) {
	for _, spec := range fourAxisTable {
		if spec.Key == key {
			return spec, true
		}
	}
	return axisSpec{}, false
}

// axisBlendFor busca la contribución de una dimensión al eje dado.
// false en ok si la dimensión no participa del eje.
func axisBlendFor(key string, dim domain.Dimension) (axisBlend, bool) {
	spec, found := axisSpecFor(key)
	if !found {
		return axisBlend{}, false
	}
	for _, b := range spec.Blends {
		if b.Dimension == dim {
			return b, true
		}
	}
	return axisBlend{}, false
}

// axisInversionFor indica si la dimensión invierte sobre el eje dado.
// false en ok si la dimensión no participa del eje.
func axisInversionFor(key string, dim domain.Dimension) (inverted, ok bool) {
	b, found := axisBlendFor(key, dim)
	if !found {
		return false, false
	}
	return b.Inverted, true
}

var errMalformedResponse = errors.New("malformed response value")

// normalizedItemValue lleva una respuesta cruda a la escala 0-100 aplicando
// el reverse_scored del item. Escala 1-7: ((raw-1)/6)*100; elección: el
// score predefinido de la opción. Valores fuera de rango o opciones
// desconocidas devuelven error y el caller descarta la respuesta.
func normalizedItemValue(item domain.Item, resp domain.Response) (float64, error) {
	var normalized float64

	if item.IsChoice() {
		value := strings.TrimSpace(resp.Value)
		found := false
		for _, opt := range item.Options {
			if opt.Value == value {
				normalized = opt.Score
				found = true
				break
			}
		}
		if !found {
			return 0, errMalformedResponse
		}
	} else {
		raw, err := strconv.ParseFloat(strings.TrimSpace(resp.Value), 64)
		if err != nil || raw < 1 || raw > 7 {
			return 0, errMalformedResponse
		}
		normalized = ((raw - 1) / 6) * 100
	}

	if normalized < 0 {
		normalized = 0
	}
	if normalized > 100 {
		normalized = 100
	}
	if item.ReverseScored {
		normalized = 100 - normalized
	}
	return normalized, nil
}

// axisItemValue es el valor 0-100 de una respuesta visto desde un eje:
// primero el reverse del item, después la inversión dimensión->eje.
// Olvidar la segunda inversión es el bug histórico del producto.
func axisItemValue(axisKey string, item domain.Item, resp domain.Response) (float64, error) {
	value, err := normalizedItemValue(item, resp)
	if err != nil {
		return 0, err
	}
	inverted, participates := axisInversionFor(axisKey, item.Dimension)
	if !participates {
		// item taggeado para un eje que su dimensión no predice:
		// se toma directo, el banco debería corregirse vía bank_check
		return value, nil
	}
	if inverted {
		value = 100 - value
	}
	return value, nil
}
