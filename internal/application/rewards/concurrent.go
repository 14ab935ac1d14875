package rewards

// concurrent.go — worker pool para valorar los outcomes de un mercado en paralelo.
//
// Cada outcome depende solo de su propio libro y del pool diario del mercado,
// así que los workers no comparten estado; los resultados se reordenan por índice.

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/alejandrodnm/polyreward/internal/domain"
)

// estimateOutcomesConcurrent normaliza y valora cada outcome del mercado usando un worker pool.
// Un outcome sin libro en books se valora con un libro vacío (y acaba como skip).
// El slice devuelto respeta el orden de market.Outcomes.
//
// Si workers <= 0 usa runtime.NumCPU().
func estimateOutcomesConcurrent(
	ctx context.Context,
	estimator *domain.Estimator,
	market domain.MarketContext,
	books map[string]domain.RawBook,
	workers int,
) ([]domain.OutcomeResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(len(market.Outcomes), 1))

	type work struct {
		idx     int
		outcome domain.Outcome
		raw     domain.RawBook
	}
	type result struct {
		idx int
		res domain.OutcomeResult
		err error
	}

	workCh := make(chan work, len(market.Outcomes))
	resultCh := make(chan result, len(market.Outcomes))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				if ctx.Err() != nil {
					resultCh <- result{idx: w.idx, err: ctx.Err()}
					continue
				}
				book := domain.NormalizeBook(w.raw)
				res, err := estimator.Estimate(w.outcome, book, market.DailyRewardPool)
				resultCh <- result{idx: w.idx, res: res, err: err}
			}
		}()
	}

	for i, o := range market.Outcomes {
		raw, ok := books[o.TokenID]
		if !ok {
			slog.Debug("no order book for outcome, treating as empty",
				"outcome", o.Label,
				"token_id", o.TokenID,
			)
			raw = domain.RawBook{TokenID: o.TokenID}
		}
		workCh <- work{idx: i, outcome: o, raw: raw}
	}
	close(workCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]domain.OutcomeResult, len(market.Outcomes))
	var firstErr error
	for r := range resultCh {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("outcome %q: %w", market.Outcomes[r.idx].Label, r.err)
			}
			continue
		}
		results[r.idx] = r.res
	}
	if firstErr != nil {
		return nil, firstErr
	}

	slog.Debug("concurrent estimation complete",
		"outcomes", len(results),
		"workers", workers,
	)
	return results, nil
}
