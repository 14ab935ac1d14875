package domain

// MarketContext es la metadata de un mercado necesaria para estimar rewards.
// Se construye una vez por ejecución a partir del evento de Gamma y no se modifica.
type MarketContext struct {
	EventSlug   string `json:"event_slug"`
	EventTitle  string `json:"event_title,omitempty"`
	ConditionID string `json:"condition_id,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Question    string `json:"question"`
	// DailyRewardPool es el total de USDC/día que el mercado reparte entre los LPs.
	DailyRewardPool float64   `json:"daily_reward_pool"`
	Outcomes        []Outcome `json:"outcomes"`
}

// Outcome es uno de los resultados posibles del mercado (ej. "Yes" / "No").
type Outcome struct {
	TokenID string `json:"token_id"`
	Label   string `json:"label"`
}

// TokenIDs devuelve los token_ids de los outcomes en orden.
func (m MarketContext) TokenIDs() []string {
	ids := make([]string, len(m.Outcomes))
	for i, o := range m.Outcomes {
		ids[i] = o.TokenID
	}
	return ids
}

// HasRewards devuelve true si el mercado reparte rewards de liquidez.
func (m MarketContext) HasRewards() bool {
	return m.DailyRewardPool > 0
}

// TruncateQuestion devuelve la pregunta del mercado truncada a maxLen runas.
// Si la pregunta está vacía usa los primeros caracteres del conditionID como fallback.
// Corta en límites de runa: "¿" o "é" nunca quedan partidas.
func TruncateQuestion(question, conditionID string, maxLen int) string {
	if question == "" {
		if len(conditionID) > 20 {
			return conditionID[:20] + "..."
		}
		return conditionID
	}
	runes := []rune(question)
	if len(runes) <= maxLen {
		return question
	}
	if maxLen <= 3 {
		return string(runes[:max(maxLen, 0)])
	}
	return string(runes[:maxLen-3]) + "..."
}
