package polymarket

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/polyreward/internal/domain"
)

// mapGammaMarket convierte un mercado de Gamma a domain.MarketContext.
// Falla solo si clobTokenIds no es un array JSON válido.
func mapGammaMarket(event gammaEvent, gm gammaMarket) (domain.MarketContext, error) {
	tokenIDs, err := decodeStringArray(gm.ClobTokenIDs)
	if err != nil {
		return domain.MarketContext{}, fmt.Errorf("decode clobTokenIds: %w", err)
	}
	labels, err := decodeStringArray(gm.Outcomes)
	if err != nil {
		// sin labels los outcomes siguen siendo valorables
		slog.Warn("gamma outcomes not decodable, using token ids as labels",
			"condition_id", gm.ConditionID, "err", err)
		labels = nil
	}
	if len(labels) == 0 {
		labels = nil
	}

	m := domain.MarketContext{
		EventSlug:       event.Slug,
		EventTitle:      event.Title,
		ConditionID:     gm.ConditionID,
		Slug:            gm.Slug,
		Question:        gm.Question,
		DailyRewardPool: sumDailyRates(gm.ClobRewards),
		Outcomes:        pairOutcomes(tokenIDs, labels),
	}

	if labels != nil && len(labels) != len(tokenIDs) {
		slog.Warn("gamma outcomes and token ids differ in length",
			"condition_id", gm.ConditionID,
			"tokens", len(tokenIDs),
			"outcomes", len(labels),
		)
	}
	return m, nil
}

// decodeStringArray decodifica un array JSON embebido en un string ("[\"a\",\"b\"]").
// Un string vacío equivale a un array vacío.
func decodeStringArray(s string) ([]string, error) {
	if s == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// pairOutcomes empareja token_ids y labels por posición.
// Sin labels, se usa el token_id como label; con labels se corta al más corto.
func pairOutcomes(tokenIDs, labels []string) []domain.Outcome {
	n := len(tokenIDs)
	if labels != nil {
		n = min(n, len(labels))
	}
	outcomes := make([]domain.Outcome, 0, n)
	for i := 0; i < n; i++ {
		label := tokenIDs[i]
		if labels != nil {
			label = labels[i]
		}
		outcomes = append(outcomes, domain.Outcome{TokenID: tokenIDs[i], Label: label})
	}
	return outcomes
}

// sumDailyRates suma las tasas diarias de todos los assets de reward.
// Sin clobRewards el pool es 0; tasas no numéricas o negativas se ignoran.
func sumDailyRates(rewards []gammaClobReward) float64 {
	var total float64
	for _, r := range rewards {
		v, err := r.RewardsDailyRate.Float64()
		if err != nil || v < 0 {
			continue
		}
		total += v
	}
	return total
}

// mapOrderBooks convierte la respuesta batch de /books a un map tokenID→RawBook.
func mapOrderBooks(raw []orderBookResponse) map[string]domain.RawBook {
	result := make(map[string]domain.RawBook, len(raw))
	for _, r := range raw {
		if r.AssetID == "" {
			continue
		}
		result[r.AssetID] = domain.RawBook{
			TokenID: r.AssetID,
			Bids:    mapRawEntries(r.Bids),
			Asks:    mapRawEntries(r.Asks),
		}
	}
	return result
}

// mapRawEntries copia los niveles raw sin parsear; el parseo lo hace domain.NormalizeBook.
func mapRawEntries(raw []bookEntryRaw) []domain.RawOrder {
	entries := make([]domain.RawOrder, len(raw))
	for i, r := range raw {
		entries[i] = domain.RawOrder{Price: r.Price, Size: r.Size}
	}
	return entries
}
