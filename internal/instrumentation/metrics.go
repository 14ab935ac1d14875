package instrumentation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alejandrodnm/polyreward/internal/domain"
)

const namespace = "polyreward"

// Metrics contiene las métricas Prometheus de las ejecuciones del estimador.
type Metrics struct {
	RunsTotal       prometheus.Counter
	RunFailures     prometheus.Counter
	OutcomesTotal   *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	EstimatedReward *prometheus.GaugeVec
	MidPrice        *prometheus.GaugeVec
}

// NewMetrics crea y registra las métricas en reg.
// Usar un registry propio por proceso (o por test) evita registros duplicados.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RunsTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of completed estimation runs",
		}),
		RunFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_failures_total",
			Help:      "Total number of runs aborted by upstream retrieval errors",
		}),
		OutcomesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outcomes_total",
			Help:      "Outcomes processed by status (rated|skipped)",
		}, []string{"status"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full run including upstream retrieval",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		EstimatedReward: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "estimated_daily_reward_usd",
			Help:      "Estimated daily reward of the latest run by outcome and spread band",
		}, []string{"outcome", "band"}),
		MidPrice: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mid_price",
			Help:      "Mid price of the latest run by outcome",
		}, []string{"outcome"}),
	}
}

// RecordReport registra una ejecución completada.
func (m *Metrics) RecordReport(report domain.Report, seconds float64) {
	m.RunsTotal.Inc()
	m.RunDuration.Observe(seconds)
	m.OutcomesTotal.WithLabelValues("rated").Add(float64(report.Rated()))
	m.OutcomesTotal.WithLabelValues("skipped").Add(float64(report.Skipped()))

	// skipped outcomes no deben conservar valores de ejecuciones anteriores
	m.EstimatedReward.Reset()
	m.MidPrice.Reset()
	for _, res := range report.Results {
		if res.Skipped {
			continue
		}
		m.MidPrice.WithLabelValues(res.Outcome.Label).Set(res.MidPrice)
		for _, est := range res.Estimates {
			m.EstimatedReward.WithLabelValues(res.Outcome.Label, est.Band.Label).Set(est.EstimatedDailyReward)
		}
	}
}

// RecordFailure registra una ejecución abortada.
func (m *Metrics) RecordFailure() {
	m.RunFailures.Inc()
}
