package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// RawOrder es un nivel de precio tal como llega de la API (strings para mayor precisión).
type RawOrder struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// RawBook es el libro de órdenes sin normalizar de un token.
// Cualquiera de los dos lados puede venir vacío o nil.
type RawBook struct {
	TokenID string
	Bids    []RawOrder
	Asks    []RawOrder
}

// OrderBook representa el libro de órdenes normalizado de un token.
type OrderBook struct {
	TokenID string
	Bids    []BookEntry // ordenados mayor a menor precio
	Asks    []BookEntry // ordenados menor a mayor precio
}

// BookEntry es un nivel de precio en el orderbook.
type BookEntry struct {
	Price float64 `json:"price"`
	Size  float64 `json:"size"`
}

// Notional devuelve el valor del nivel a su propio precio límite (price × size).
func (e BookEntry) Notional() float64 {
	return e.Price * e.Size
}

// maxOutcomePrice es el precio máximo de un outcome token (1 USDC = probabilidad 1).
const maxOutcomePrice = 1.0

// NormalizeBook convierte un RawBook en un OrderBook ordenado.
// Las entradas con price o size no parseables, negativos o no finitos se descartan,
// igual que las de price > 1.
// Nunca falla: en el peor caso devuelve lados vacíos.
func NormalizeBook(raw RawBook) OrderBook {
	return OrderBook{
		TokenID: raw.TokenID,
		Bids:    normalizeSide(raw.Bids, false),
		Asks:    normalizeSide(raw.Asks, true),
	}
}

// normalizeSide parsea y ordena un lado del libro.
// ascending=true → menor a mayor (asks), ascending=false → mayor a menor (bids).
func normalizeSide(raw []RawOrder, ascending bool) []BookEntry {
	entries := make([]BookEntry, 0, len(raw))
	for _, r := range raw {
		price, ok := parseAmount(r.Price)
		if !ok || price > maxOutcomePrice {
			continue
		}
		size, ok := parseAmount(r.Size)
		if !ok {
			continue
		}
		entries = append(entries, BookEntry{Price: price, Size: size})
	}

	sort.Slice(entries, func(i, j int) bool {
		if ascending {
			return entries[i].Price < entries[j].Price
		}
		return entries[i].Price > entries[j].Price
	})

	return entries
}

// parseAmount parsea un string decimal no negativo.
// decimal rechaza "NaN", "Inf" y strings vacíos; exponentes enormes
// desbordan a ±Inf al convertir y también se descartan.
func parseAmount(s string) (float64, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0, false
	}
	v := d.InexactFloat64()
	if !isFinite(v) {
		return 0, false
	}
	return v, true
}

// BestBid devuelve el mejor precio de compra (mayor bid).
// ok=false si no hay bids.
func (ob OrderBook) BestBid() (price float64, ok bool) {
	if len(ob.Bids) == 0 {
		return 0, false
	}
	return ob.Bids[0].Price, true
}

// BestAsk devuelve el mejor precio de venta (menor ask).
// ok=false si no hay asks.
func (ob OrderBook) BestAsk() (price float64, ok bool) {
	if len(ob.Asks) == 0 {
		return 0, false
	}
	return ob.Asks[0].Price, true
}

// Midpoint devuelve el punto medio entre best bid y best ask.
// ok=false si falta cualquiera de los dos lados: no se inventa un mid con ceros.
func (ob OrderBook) Midpoint() (mid float64, ok bool) {
	bid, okBid := ob.BestBid()
	ask, okAsk := ob.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return (bid + ask) / 2, true
}

// BidDepthFrom suma price × size de los bids con precio >= minPrice.
func (ob OrderBook) BidDepthFrom(minPrice float64) float64 {
	var total float64
	for _, b := range ob.Bids {
		if b.Price >= minPrice {
			total += b.Notional()
		}
	}
	return total
}

// AskDepthTo suma price × size de los asks con precio <= maxPrice.
func (ob OrderBook) AskDepthTo(maxPrice float64) float64 {
	var total float64
	for _, a := range ob.Asks {
		if a.Price <= maxPrice {
			total += a.Notional()
		}
	}
	return total
}
