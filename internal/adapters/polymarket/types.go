package polymarket

import "encoding/json"

// DTOs raw de la API de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Gamma API ---

// gammaEventsResponse es la respuesta de GET /events?slug=... de Gamma.
type gammaEventsResponse []gammaEvent

// gammaEvent es un evento con sus mercados.
type gammaEvent struct {
	ID      string        `json:"id"`
	Slug    string        `json:"slug"`
	Title   string        `json:"title"`
	Markets []gammaMarket `json:"markets"`
}

// gammaMarket contiene la metadata de un mercado del evento.
// clobTokenIds y outcomes llegan como arrays JSON codificados dentro de un string.
type gammaMarket struct {
	ConditionID  string            `json:"conditionId"`
	Question     string            `json:"question"`
	Slug         string            `json:"slug"`
	ClobTokenIDs string            `json:"clobTokenIds"`
	Outcomes     string            `json:"outcomes"`
	ClobRewards  []gammaClobReward `json:"clobRewards"`
	Active       bool              `json:"active"`
	Closed       bool              `json:"closed"`
}

// gammaClobReward es la tasa diaria de rewards de un asset.
// Gamma devuelve algunos campos numéricos como strings JSON, usamos json.Number.
type gammaClobReward struct {
	AssetAddress     string      `json:"assetAddress"`
	RewardsDailyRate json.Number `json:"rewardsDailyRate"`
}

// --- CLOB API ---

// orderBookRequest es el body del POST /books batch.
type orderBookRequest struct {
	TokenID string `json:"token_id"`
}

// orderBookResponse es la respuesta de un item en POST /books.
type orderBookResponse struct {
	Market  string         `json:"market"`
	AssetID string         `json:"asset_id"`
	Bids    []bookEntryRaw `json:"bids"`
	Asks    []bookEntryRaw `json:"asks"`
}

// bookEntryRaw es un nivel de precio raw de la API (strings para mayor precisión).
type bookEntryRaw struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}
