package domain

import "time"

// Report es el resultado completo de una ejecución sobre un mercado.
type Report struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Market      MarketContext   `json:"market"`
	Capital     float64         `json:"capital_usd"`
	Results     []OutcomeResult `json:"results"`
}

// Rated devuelve el número de outcomes valorados (no saltados).
func (r Report) Rated() int {
	n := 0
	for _, res := range r.Results {
		if !res.Skipped {
			n++
		}
	}
	return n
}

// Skipped devuelve el número de outcomes saltados por falta de un lado del libro.
func (r Report) Skipped() int {
	return len(r.Results) - r.Rated()
}

// APR devuelve el APR estimado de una recompensa diaria sobre el capital del reporte.
func (r Report) APR(dailyReward float64) float64 {
	if r.Capital <= 0 {
		return 0
	}
	return (dailyReward / r.Capital) * 365 * 100
}
