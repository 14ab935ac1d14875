package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidCapital indica un capital de usuario no positivo o no finito.
	ErrInvalidCapital = errors.New("capital must be a positive finite amount")
	// ErrInvalidBand indica una banda con half-width no positivo o no finito.
	ErrInvalidBand = errors.New("spread band half-width must be positive")
	// ErrNoBands indica que no se configuró ninguna banda.
	ErrNoBands = errors.New("at least one spread band is required")
	// ErrInvalidPool indica un pool diario negativo o no finito.
	ErrInvalidPool = errors.New("daily reward pool must be a non-negative finite amount")
	// ErrUnratable indica que falta un lado del libro y no hay mid price.
	ErrUnratable = errors.New("outcome is unratable")
)

// SpreadBand es una ventana simétrica de precios alrededor del mid (ej. 0.01 = ±1 centavo).
type SpreadBand struct {
	Label     string  `json:"label" yaml:"label"`
	HalfWidth float64 `json:"half_width" yaml:"half_width"`
}

// DefaultBands devuelve las bandas ±1c, ±2c y ±3c.
func DefaultBands() []SpreadBand {
	return []SpreadBand{
		{Label: "1%", HalfWidth: 0.01},
		{Label: "2%", HalfWidth: 0.02},
		{Label: "3%", HalfWidth: 0.03},
	}
}

// RewardEstimate es el resultado de una banda para un outcome.
type RewardEstimate struct {
	Band                 SpreadBand `json:"band"`
	MinPrice             float64    `json:"min_price"`
	MaxPrice             float64    `json:"max_price"`
	BidDepthUSD          float64    `json:"bid_depth_usd"`
	AskDepthUSD          float64    `json:"ask_depth_usd"`
	TotalDepthUSD        float64    `json:"total_depth_usd"`
	UserShare            float64    `json:"user_share"`
	OutcomeRewardPool    float64    `json:"outcome_reward_pool"`
	EstimatedDailyReward float64    `json:"estimated_daily_reward"`
}

// OutcomeResult es el resultado de un outcome: las estimaciones por banda
// o una marca de skip si el outcome no se puede valorar.
type OutcomeResult struct {
	Outcome    Outcome          `json:"outcome"`
	BestBid    float64          `json:"best_bid,omitempty"`
	BestAsk    float64          `json:"best_ask,omitempty"`
	MidPrice   float64          `json:"mid_price,omitempty"`
	Skipped    bool             `json:"skipped"`
	SkipReason string           `json:"skip_reason,omitempty"`
	Estimates  []RewardEstimate `json:"estimates,omitempty"`
}

// Estimator calcula los rewards estimados de un outcome para un conjunto fijo de bandas.
// Es inmutable y seguro para uso concurrente.
type Estimator struct {
	capital float64
	bands   []SpreadBand
}

// ValidateConfig comprueba capital y bandas antes de empezar a calcular.
func ValidateConfig(capital float64, bands []SpreadBand) error {
	if !(capital > 0) || !isFinite(capital) {
		return fmt.Errorf("%w: got %v", ErrInvalidCapital, capital)
	}
	if len(bands) == 0 {
		return ErrNoBands
	}
	for i, b := range bands {
		if !(b.HalfWidth > 0) || !isFinite(b.HalfWidth) {
			return fmt.Errorf("%w: band %d (%q) has half-width %v", ErrInvalidBand, i, b.Label, b.HalfWidth)
		}
	}
	return nil
}

// NewEstimator crea un Estimator con el capital del usuario y las bandas dadas.
func NewEstimator(capital float64, bands []SpreadBand) (*Estimator, error) {
	if err := ValidateConfig(capital, bands); err != nil {
		return nil, fmt.Errorf("domain.NewEstimator: %w", err)
	}
	return &Estimator{
		capital: capital,
		bands:   append([]SpreadBand(nil), bands...),
	}, nil
}

// Capital devuelve el capital configurado.
func (e *Estimator) Capital() float64 {
	return e.capital
}

// Bands devuelve una copia de las bandas configuradas.
func (e *Estimator) Bands() []SpreadBand {
	return append([]SpreadBand(nil), e.bands...)
}

// Estimate valora un outcome a partir de su libro normalizado y del pool diario del mercado.
//
// Si falta bids o asks el resultado es un skip (Skipped=true) y no se calcula ninguna banda.
// También es skip un libro cuya profundidad desborda a ±Inf.
// Devuelve error solo si dailyRewardPool es negativo o no finito.
func (e *Estimator) Estimate(outcome Outcome, book OrderBook, dailyRewardPool float64) (OutcomeResult, error) {
	if dailyRewardPool < 0 || !isFinite(dailyRewardPool) {
		return OutcomeResult{}, fmt.Errorf("domain.Estimate %s: %w: got %v", outcome.Label, ErrInvalidPool, dailyRewardPool)
	}

	result := OutcomeResult{Outcome: outcome}

	mid, ok := book.Midpoint()
	if !ok {
		result.Skipped = true
		result.SkipReason = skipReason(len(book.Bids) > 0, len(book.Asks) > 0)
		return result, nil
	}

	result.BestBid, _ = book.BestBid()
	result.BestAsk, _ = book.BestAsk()
	result.MidPrice = mid

	outcomePool := OutcomeRewardPool(dailyRewardPool, mid)

	result.Estimates = make([]RewardEstimate, 0, len(e.bands))
	for _, band := range e.bands {
		minPrice, maxPrice := BandWindow(mid, band.HalfWidth)

		bidDepth := book.BidDepthFrom(minPrice)
		askDepth := book.AskDepthTo(maxPrice)
		totalDepth := bidDepth + askDepth
		if !isFinite(totalDepth) {
			// sizes absurdos desbordan la suma; no hay reward representable
			return OutcomeResult{
				Outcome:    outcome,
				Skipped:    true,
				SkipReason: "order book depth overflow",
			}, nil
		}

		share := UserShare(totalDepth, e.capital)

		result.Estimates = append(result.Estimates, RewardEstimate{
			Band:                 band,
			MinPrice:             minPrice,
			MaxPrice:             maxPrice,
			BidDepthUSD:          bidDepth,
			AskDepthUSD:          askDepth,
			TotalDepthUSD:        totalDepth,
			UserShare:            share,
			OutcomeRewardPool:    outcomePool,
			EstimatedDailyReward: outcomePool * share,
		})
	}

	return result, nil
}

// Err devuelve ErrUnratable envuelto con el motivo si el resultado es un skip, o nil.
func (r OutcomeResult) Err() error {
	if !r.Skipped {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnratable, r.SkipReason)
}

// BestEstimate devuelve la banda con mayor reward estimado.
// ok=false si el outcome fue saltado.
func (r OutcomeResult) BestEstimate() (RewardEstimate, bool) {
	if r.Skipped || len(r.Estimates) == 0 {
		return RewardEstimate{}, false
	}
	best := r.Estimates[0]
	for _, est := range r.Estimates[1:] {
		if est.EstimatedDailyReward > best.EstimatedDailyReward {
			best = est
		}
	}
	return best, true
}

func skipReason(hasBids, hasAsks bool) string {
	var missing []string
	if !hasBids {
		missing = append(missing, "bid")
	}
	if !hasAsks {
		missing = append(missing, "ask")
	}
	return "empty " + strings.Join(missing, " and ") + " side"
}
