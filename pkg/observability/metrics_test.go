package observability_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.ObserveParse(true)
	m.ObserveParse(true)
	m.ObserveParse(false)
	m.ObserveCompile(nil)
	m.ObserveCompile(errors.New("boom"))

	count, err := testutil.GatherAndCount(reg, "lattice_reference_parses_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per result")

	count, err = testutil.GatherAndCount(reg, "lattice_blueprint_compiles_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetrics_WatchBlueprint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	leaf := domain.NewBlueprint("leaf")
	host := domain.NewBlueprint("host")

	cancel := m.WatchBlueprint(host)
	_, err := host.AddOperator("a", leaf)
	require.NoError(t, err)
	_, err = host.AddOperator("b", leaf)
	require.NoError(t, err)
	cancel()
	_, err = host.AddOperator("c", leaf)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "lattice_operators_added_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() == "lattice_operators_added_total" {
			assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestMetrics_InstrumentHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	h := m.InstrumentHandler("/teapot", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	count, err := testutil.GatherAndCount(reg, "lattice_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *observability.Metrics
	m.ObserveParse(true)
	m.ObserveCompile(nil)
	m.WatchBlueprint(domain.NewBlueprint("x"))()
	m.ObserveOperator(nil)

	next := http.NotFoundHandler()
	assert.NotNil(t, m.InstrumentHandler("/", next))
}
