package instrumentation

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/alejandrodnm/polyreward/internal/domain"
)

func TestMetrics_RecordReport(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	report := domain.Report{
		Results: []domain.OutcomeResult{
			{
				Outcome:  domain.Outcome{Label: "Yes"},
				MidPrice: 0.51,
				Estimates: []domain.RewardEstimate{
					{Band: domain.SpreadBand{Label: "1%"}, EstimatedDailyReward: 474},
					{Band: domain.SpreadBand{Label: "2%"}, EstimatedDailyReward: 300},
				},
			},
			{Outcome: domain.Outcome{Label: "No"}, Skipped: true},
		},
	}

	m.RecordReport(report, 0.2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutcomesTotal.WithLabelValues("rated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutcomesTotal.WithLabelValues("skipped")))
	assert.Equal(t, 474.0, testutil.ToFloat64(m.EstimatedReward.WithLabelValues("Yes", "1%")))
	assert.Equal(t, 0.51, testutil.ToFloat64(m.MidPrice.WithLabelValues("Yes")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.EstimatedReward))
}

func TestMetrics_RecordFailure(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordFailure()
	m.RecordFailure()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunFailures))
}
