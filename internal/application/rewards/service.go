package rewards

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/polyreward/internal/domain"
	"github.com/alejandrodnm/polyreward/internal/instrumentation"
	"github.com/alejandrodnm/polyreward/internal/ports"
)

// ErrNoReport indica que todavía no terminó ninguna ejecución.
var ErrNoReport = errors.New("no report available yet")

// Config contiene la configuración del servicio.
type Config struct {
	EventSlug   string
	MarketIndex int
	// Interval entre ejecuciones en modo watch. 0 = una sola ejecución.
	Interval time.Duration
	Workers  int // goroutines para valorar outcomes (0 = NumCPU)
}

// Service orquesta fetch de mercado → fetch de books → estimación → notificación.
type Service struct {
	cfg       Config
	markets   ports.MarketProvider
	books     ports.BookProvider
	estimator *domain.Estimator
	notifier  ports.Notifier
	metrics   *instrumentation.Metrics

	now   func() time.Time
	newID func() string

	mu     sync.RWMutex
	latest *domain.Report
}

// Option modifica el Service en construcción.
type Option func(*Service)

// WithMetrics registra cada ejecución en las métricas dadas.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithClock reemplaza time.Now y el generador de run IDs. Útil en tests.
func WithClock(now func() time.Time, newID func() string) Option {
	return func(s *Service) {
		s.now = now
		s.newID = newID
	}
}

// New crea un Service con todas las dependencias inyectadas.
// notifier puede ser nil (modo solo-API).
func New(
	cfg Config,
	markets ports.MarketProvider,
	books ports.BookProvider,
	estimator *domain.Estimator,
	notifier ports.Notifier,
	opts ...Option,
) *Service {
	s := &Service{
		cfg:       cfg,
		markets:   markets,
		books:     books,
		estimator: estimator,
		notifier:  notifier,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run ejecuta una vez y, si hay Interval, repite hasta que el contexto se cancele.
// En modo watch los errores de un ciclo se loguean y el loop continúa.
func (s *Service) Run(ctx context.Context) error {
	slog.Info("reward estimator starting",
		"event", s.cfg.EventSlug,
		"market_index", s.cfg.MarketIndex,
		"capital", s.estimator.Capital(),
		"bands", len(s.estimator.Bands()),
		"interval", s.cfg.Interval,
	)

	_, err := s.RunOnce(ctx)
	if s.cfg.Interval <= 0 {
		return err
	}
	if err != nil {
		slog.Error("estimation run failed", "err", err)
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reward estimator stopped")
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				slog.Error("estimation run failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente una estimación completa, la notifica y la guarda como última.
func (s *Service) RunOnce(ctx context.Context) (domain.Report, error) {
	start := time.Now()

	report, err := s.estimate(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordFailure()
		}
		return domain.Report{}, err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordReport(report, elapsed.Seconds())
	}

	s.mu.Lock()
	s.latest = &report
	s.mu.Unlock()

	slog.Info("estimation run complete",
		"run_id", report.RunID,
		"outcomes", len(report.Results),
		"rated", report.Rated(),
		"skipped", report.Skipped(),
		"duration", elapsed.Round(time.Millisecond),
	)
	return report, nil
}

// Latest devuelve el último reporte completado.
func (s *Service) Latest() (domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return domain.Report{}, ErrNoReport
	}
	return *s.latest, nil
}

// estimate hace fetch → concurrent estimate y arma el reporte.
func (s *Service) estimate(ctx context.Context) (domain.Report, error) {
	market, err := s.markets.FetchMarket(ctx, s.cfg.EventSlug, s.cfg.MarketIndex)
	if err != nil {
		return domain.Report{}, fmt.Errorf("rewards.estimate: fetch market: %w", err)
	}

	if !market.HasRewards() {
		slog.Warn("market has no liquidity rewards, every estimate will be 0",
			"condition_id", market.ConditionID,
		)
	}

	books, err := s.books.FetchOrderBooks(ctx, market.TokenIDs())
	if err != nil {
		return domain.Report{}, fmt.Errorf("rewards.estimate: fetch books: %w", err)
	}

	results, err := estimateOutcomesConcurrent(ctx, s.estimator, market, books, s.cfg.Workers)
	if err != nil {
		return domain.Report{}, fmt.Errorf("rewards.estimate: %w", err)
	}

	for _, res := range results {
		if res.Skipped {
			slog.Warn("outcome skipped", "outcome", res.Outcome.Label, "err", res.Err())
		}
	}

	return domain.Report{
		RunID:       s.newID(),
		GeneratedAt: s.now().UTC(),
		Market:      market,
		Capital:     s.estimator.Capital(),
		Results:     results,
	}, nil
}
