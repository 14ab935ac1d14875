package httpapi_test

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/polyreward/internal/adapters/httpapi"
	"github.com/alejandrodnm/polyreward/internal/application/rewards"
	"github.com/alejandrodnm/polyreward/internal/domain"
	"github.com/alejandrodnm/polyreward/internal/instrumentation"
)

type stubSource struct {
	report domain.Report
	err    error
}

func (s stubSource) Latest() (domain.Report, error) { return s.report, s.err }

func newTestServer(t *testing.T, src httpapi.ReportSource) (*httptest.Server, *instrumentation.Metrics) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := instrumentation.NewMetrics(reg)
	srv := httptest.NewServer(httpapi.NewRouter(src, reg, nil))
	t.Cleanup(srv.Close)
	return srv, m
}

func TestRouter_Health(t *testing.T) {
	srv, _ := newTestServer(t, stubSource{})

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Report(t *testing.T) {
	src := stubSource{report: domain.Report{
		RunID:   "run-1",
		Capital: 1000,
		Results: []domain.OutcomeResult{{Outcome: domain.Outcome{Label: "Yes"}, MidPrice: 0.51}},
	}}
	srv, _ := newTestServer(t, src)

	resp, err := http.Get(srv.URL + "/api/v1/report")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "run-1", got.RunID)
	assert.InDelta(t, 0.51, got.Results[0].MidPrice, 1e-12)
}

func TestRouter_Report_NotReady(t *testing.T) {
	srv, _ := newTestServer(t, stubSource{err: rewards.ErrNoReport})

	resp, err := http.Get(srv.URL + "/api/v1/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_Report_Error(t *testing.T) {
	srv, _ := newTestServer(t, stubSource{err: errors.New("boom")})

	resp, err := http.Get(srv.URL + "/api/v1/report")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	srv, m := newTestServer(t, stubSource{})
	m.RecordFailure()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "polyreward_run_failures_total 1")
}

func TestRouter_Report_UnencodableIs500(t *testing.T) {
	src := stubSource{report: domain.Report{
		RunID:   "run-inf",
		Results: []domain.OutcomeResult{{MidPrice: math.Inf(1)}},
	}}
	srv, _ := newTestServer(t, src)

	resp, err := http.Get(srv.URL + "/api/v1/report")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "failed to encode response", body["error"])
}
