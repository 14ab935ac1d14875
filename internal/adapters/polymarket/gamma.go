package polymarket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alejandrodnm/polyreward/internal/domain"
)

const gammaEventsPath = "/events"

var (
	// ErrEventNotFound indica que Gamma no devolvió ningún evento para el slug.
	ErrEventNotFound = errors.New("event not found")
	// ErrMarketNotFound indica que el evento no tiene mercado en el índice pedido.
	ErrMarketNotFound = errors.New("market not found in event")
)

// FetchMarket obtiene el evento eventSlug de Gamma y devuelve su mercado marketIndex
// mapeado a domain.MarketContext.
func (c *Client) FetchMarket(ctx context.Context, eventSlug string, marketIndex int) (domain.MarketContext, error) {
	u := fmt.Sprintf("%s%s?slug=%s", c.gammaBase, gammaEventsPath, url.QueryEscape(eventSlug))

	var resp gammaEventsResponse
	if err := c.get(ctx, c.gammaLimiter, u, &resp); err != nil {
		return domain.MarketContext{}, fmt.Errorf("gamma.FetchMarket %q: %w", eventSlug, err)
	}

	if len(resp) == 0 {
		return domain.MarketContext{}, fmt.Errorf("gamma.FetchMarket %q: %w", eventSlug, ErrEventNotFound)
	}
	event := resp[0]

	if marketIndex < 0 || marketIndex >= len(event.Markets) {
		return domain.MarketContext{}, fmt.Errorf("gamma.FetchMarket %q: %w: index %d, event has %d markets",
			eventSlug, ErrMarketNotFound, marketIndex, len(event.Markets))
	}

	market, err := mapGammaMarket(event, event.Markets[marketIndex])
	if err != nil {
		return domain.MarketContext{}, fmt.Errorf("gamma.FetchMarket %q: %w", eventSlug, err)
	}

	slog.Debug("gamma market fetched",
		"event", eventSlug,
		"markets_in_event", len(event.Markets),
		"condition_id", market.ConditionID,
		"outcomes", len(market.Outcomes),
		"daily_pool", market.DailyRewardPool,
	)
	return market, nil
}
