package domain

import "math"

// UserShare calcula la fracción del pool que le corresponde a tu capital.
//
// Fórmula: share = capital / (totalDepth + capital)
//
// Con capital > 0 el resultado está siempre en (0, 1]: vale 1 sin competencia
// y tiende a 0 a medida que crece la profundidad existente.
// Devuelve 0 si capital no es positivo.
func UserShare(totalDepth, capital float64) float64 {
	if capital <= 0 {
		return 0
	}
	if totalDepth < 0 {
		totalDepth = 0
	}
	return capital / (totalDepth + capital)
}

// OutcomeRewardPool aproxima la parte del pool diario que corresponde a un outcome.
//
// Fórmula: pool_outcome = dailyRewardPool × midPrice
//
// El mid price se usa como proxy de la probabilidad implícita del outcome.
// Es una aproximación: los mids de todos los outcomes de un mercado no tienen
// por qué sumar 1 y aquí no se normalizan entre sí.
func OutcomeRewardPool(dailyRewardPool, midPrice float64) float64 {
	if dailyRewardPool <= 0 || midPrice <= 0 {
		return 0
	}
	return dailyRewardPool * midPrice
}

// BandWindow devuelve la ventana de precios [min, max] de una banda alrededor del mid.
// El mínimo se clampa a 0 (no hay precios negativos); el máximo no se clampa a 1.
func BandWindow(midPrice, halfWidth float64) (minPrice, maxPrice float64) {
	return math.Max(0, midPrice-halfWidth), midPrice + halfWidth
}

// isFinite devuelve true si v no es NaN ni ±Inf.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
