package rewards_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polyreward/internal/application/rewards"
	"github.com/alejandrodnm/polyreward/internal/domain"
	"github.com/alejandrodnm/polyreward/internal/instrumentation"
)

// --- mocks ---

type mockMarketProvider struct {
	market   domain.MarketContext
	err      error
	gotSlug  string
	gotIndex int
}

func (m *mockMarketProvider) FetchMarket(_ context.Context, slug string, idx int) (domain.MarketContext, error) {
	m.gotSlug, m.gotIndex = slug, idx
	return m.market, m.err
}

type mockBookProvider struct {
	books  map[string]domain.RawBook
	err    error
	gotIDs []string
}

func (m *mockBookProvider) FetchOrderBooks(_ context.Context, ids []string) (map[string]domain.RawBook, error) {
	m.gotIDs = ids
	return m.books, m.err
}

type mockNotifier struct {
	mu       sync.Mutex
	notified []domain.Report
	err      error
}

func (m *mockNotifier) Notify(_ context.Context, r domain.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = append(m.notified, r)
	return m.err
}

func (m *mockNotifier) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notified)
}

// --- helpers ---

func makeMarket(pool float64) domain.MarketContext {
	return domain.MarketContext{
		EventSlug:       "test-event",
		ConditionID:     "0xtest",
		Question:        "Will it happen?",
		DailyRewardPool: pool,
		Outcomes: []domain.Outcome{
			{TokenID: "yes", Label: "Yes"},
			{TokenID: "no", Label: "No"},
			{TokenID: "maybe", Label: "Maybe"},
		},
	}
}

func makeBooks() map[string]domain.RawBook {
	return map[string]domain.RawBook{
		"yes": {
			TokenID: "yes",
			Bids:    []domain.RawOrder{{Price: "0.50", Size: "100"}},
			Asks:    []domain.RawOrder{{Price: "0.52", Size: "50"}},
		},
		"no": {
			TokenID: "no",
			Asks:    []domain.RawOrder{{Price: "0.30", Size: "10"}},
		},
		// "maybe" ausente: se trata como libro vacío
	}
}

func newEstimator(t *testing.T) *domain.Estimator {
	t.Helper()
	e, err := domain.NewEstimator(1000, []domain.SpreadBand{{Label: "1%", HalfWidth: 0.01}})
	require.NoError(t, err)
	return e
}

func fixedClock() (func() time.Time, func() string) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return ts }, func() string { return "run-fixed" }
}

// --- tests ---

func TestService_RunOnce(t *testing.T) {
	markets := &mockMarketProvider{market: makeMarket(1000)}
	books := &mockBookProvider{books: makeBooks()}
	notifier := &mockNotifier{}
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())

	svc := rewards.New(
		rewards.Config{EventSlug: "test-event", MarketIndex: 2, Workers: 2},
		markets, books, newEstimator(t), notifier,
		rewards.WithMetrics(metrics),
		rewards.WithClock(fixedClock()),
	)

	report, err := svc.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "test-event", markets.gotSlug)
	assert.Equal(t, 2, markets.gotIndex)
	assert.Equal(t, []string{"yes", "no", "maybe"}, books.gotIDs)

	assert.Equal(t, "run-fixed", report.RunID)
	assert.Equal(t, 1000.0, report.Capital)
	require.Len(t, report.Results, 3)

	// orden de outcomes preservado
	assert.Equal(t, "Yes", report.Results[0].Outcome.Label)
	assert.Equal(t, "No", report.Results[1].Outcome.Label)
	assert.Equal(t, "Maybe", report.Results[2].Outcome.Label)

	yes := report.Results[0]
	require.False(t, yes.Skipped)
	assert.InDelta(t, 0.51, yes.MidPrice, 1e-12)
	assert.InDelta(t, 474.0, yes.Estimates[0].EstimatedDailyReward, 0.1)

	assert.True(t, report.Results[1].Skipped)
	assert.Equal(t, "empty bid side", report.Results[1].SkipReason)
	assert.True(t, report.Results[2].Skipped)

	assert.Equal(t, 1, notifier.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunsTotal))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.OutcomesTotal.WithLabelValues("skipped")))

	latest, err := svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, report.RunID, latest.RunID)
}

func TestService_Latest_BeforeFirstRun(t *testing.T) {
	svc := rewards.New(rewards.Config{}, &mockMarketProvider{}, &mockBookProvider{}, newEstimator(t), nil)
	_, err := svc.Latest()
	assert.ErrorIs(t, err, rewards.ErrNoReport)
}

func TestService_RunOnce_MarketError(t *testing.T) {
	upstream := errors.New("gamma down")
	metrics := instrumentation.NewMetrics(prometheus.NewRegistry())
	notifier := &mockNotifier{}

	svc := rewards.New(rewards.Config{},
		&mockMarketProvider{err: upstream}, &mockBookProvider{},
		newEstimator(t), notifier, rewards.WithMetrics(metrics))

	_, err := svc.RunOnce(context.Background())
	assert.ErrorIs(t, err, upstream)
	assert.Equal(t, 0, notifier.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RunFailures))

	_, err = svc.Latest()
	assert.ErrorIs(t, err, rewards.ErrNoReport)
}

func TestService_RunOnce_BooksError(t *testing.T) {
	upstream := errors.New("clob down")
	svc := rewards.New(rewards.Config{},
		&mockMarketProvider{market: makeMarket(10)}, &mockBookProvider{err: upstream},
		newEstimator(t), nil)

	_, err := svc.RunOnce(context.Background())
	assert.ErrorIs(t, err, upstream)
}

func TestService_RunOnce_InvalidPool(t *testing.T) {
	svc := rewards.New(rewards.Config{},
		&mockMarketProvider{market: makeMarket(-1)}, &mockBookProvider{books: makeBooks()},
		newEstimator(t), nil)

	_, err := svc.RunOnce(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidPool)
}

func TestService_RunOnce_NotifierErrorIgnored(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("stdout closed")}
	svc := rewards.New(rewards.Config{},
		&mockMarketProvider{market: makeMarket(1000)}, &mockBookProvider{books: makeBooks()},
		newEstimator(t), notifier)

	_, err := svc.RunOnce(context.Background())
	assert.NoError(t, err)
}

func TestService_RunOnce_ZeroPool(t *testing.T) {
	svc := rewards.New(rewards.Config{},
		&mockMarketProvider{market: makeMarket(0)}, &mockBookProvider{books: makeBooks()},
		newEstimator(t), nil)

	report, err := svc.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, report.Results[0].Estimates[0].EstimatedDailyReward)
}

func TestService_Run_Once(t *testing.T) {
	notifier := &mockNotifier{}
	svc := rewards.New(rewards.Config{},
		&mockMarketProvider{market: makeMarket(1000)}, &mockBookProvider{books: makeBooks()},
		newEstimator(t), notifier)

	require.NoError(t, svc.Run(context.Background()))
	assert.Equal(t, 1, notifier.count())
}

func TestService_Run_OnceReturnsError(t *testing.T) {
	svc := rewards.New(rewards.Config{},
		&mockMarketProvider{err: errors.New("boom")}, &mockBookProvider{},
		newEstimator(t), nil)

	assert.Error(t, svc.Run(context.Background()))
}

func TestService_Run_WatchUntilCancelled(t *testing.T) {
	notifier := &mockNotifier{}
	svc := rewards.New(rewards.Config{Interval: 10 * time.Millisecond},
		&mockMarketProvider{market: makeMarket(1000)}, &mockBookProvider{books: makeBooks()},
		newEstimator(t), notifier)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	assert.Eventually(t, func() bool { return notifier.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
