package ports

import (
	"context"

	"github.com/alejandrodnm/polyreward/internal/domain"
)

// MarketProvider obtiene la metadata del mercado a valorar.
type MarketProvider interface {
	// FetchMarket devuelve el mercado en la posición marketIndex del evento eventSlug,
	// con sus outcomes en orden y el pool diario de rewards.
	FetchMarket(ctx context.Context, eventSlug string, marketIndex int) (domain.MarketContext, error)
}
