package service

import "prism-api/internal/domain"

// Inferencia del sistema circular de nueve tipos: cada tipo tiene un pool
// de items taggeados "type:<n>"; las afinidades 0-100 se normalizan por
// suma (no softmax) para mantener el cálculo determinista y testeable.

const neutralAffinity = 50.0

// inferNineType nunca falla: tipos sin items quedan con afinidad neutral y
// sin ningún item taggeado la distribucion resultante es uniforme.
func inferNineType(scored []scoredResponse) *domain.NineTypeMapping {
	affinities := make(map[int]float64, 9)
	counts := make(map[int]int, 9)

	sums := make(map[int]float64, 9)
	weights := make(map[int]float64, 9)
	for _, sr := range scored {
		for _, tag := range sr.item.Frameworks {
			n, ok := domain.ParseTypeTag(tag)
			if !ok {
				continue
			}
			w := sr.item.EffectiveWeight()
			sums[n] += sr.value * w
			weights[n] += w
			counts[n]++
		}
	}

	var total float64
	for t := 1; t <= 9; t++ {
		if weights[t] > 0 {
			affinities[t] = sums[t] / weights[t]
		} else {
			affinities[t] = neutralAffinity
		}
		total += affinities[t]
	}

	dist := make(map[int]float64, 9)
	if total <= 0 {
		// todas las afinidades en cero: distribucion uniforme
		for t := 1; t <= 9; t++ {
			dist[t] = 1.0 / 9.0
		}
	} else {
		for t := 1; t <= 9; t++ {
			dist[t] = affinities[t] / total
		}
	}

	primary := 1
	for t := 2; t <= 9; t++ {
		if dist[t] > dist[primary] {
			primary = t
		}
	}

	wing := wingFor(primary, dist)

	return &domain.NineTypeMapping{
		Primary:         primary,
		Probability:     dist[primary],
		Wing:            wing,
		WingProbability: dist[wing],
		Distribution:    dist,
	}
}

// wingFor elige el vecino circular (tipo±1 modulo 9, con 9 adyacente a 1)
// de mayor afinidad normalizada. Empate: gana el vecino de número menor.
func wingFor(primary int, dist map[int]float64) int {
	left := primary - 1
	if left < 1 {
		left = 9
	}
	right := primary + 1
	if right > 9 {
		right = 1
	}
	if dist[right] > dist[left] {
		return right
	}
	if dist[left] > dist[right] {
		return left
	}
	if left < right {
		return left
	}
	return right
}
