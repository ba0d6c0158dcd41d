package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics groups the collectors lattice records into.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	referenceParses *prometheus.CounterVec
	compiles        *prometheus.CounterVec
	operatorsAdded  *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		referenceParses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_reference_parses_total",
				Help: "Port references parsed, by result",
			},
			[]string{"result"},
		),
		compiles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_blueprint_compiles_total",
				Help: "Blueprint compilations, by result",
			},
			[]string{"result"},
		),
		operatorsAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_operators_added_total",
				Help: "Operators placed, by instantiated blueprint",
			},
			[]string{"blueprint"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lattice_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "code"},
		),
	}
	reg.MustRegister(m.referenceParses, m.compiles, m.operatorsAdded, m.httpDuration)
	return m
}

// ObserveParse counts one reference parse.
func (m *Metrics) ObserveParse(ok bool) {
	if m == nil {
		return
	}
	m.referenceParses.WithLabelValues(result(ok)).Inc()
}

// ObserveCompile counts one blueprint compilation. Cache hits are not compilations.
func (m *Metrics) ObserveCompile(err error) {
	if m == nil {
		return
	}
	m.compiles.WithLabelValues(result(err == nil)).Inc()
}

// ObserveOperator counts one placed operator under the blueprint it instantiates.
func (m *Metrics) ObserveOperator(op *domain.Operator) {
	if m == nil {
		return
	}
	m.operatorsAdded.WithLabelValues(op.Blueprint().ID()).Inc()
}

// WatchBlueprint counts operators placed in bp from now on.
// The returned function stops watching.
func (m *Metrics) WatchBlueprint(bp *domain.Blueprint) (cancel func()) {
	if m == nil {
		return func() {}
	}
	return bp.OnOperatorAdded(m.ObserveOperator)
}

// InstrumentHandler records the duration of requests served by next under route.
func (m *Metrics) InstrumentHandler(route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.httpDuration.WithLabelValues(route, strconv.Itoa(rec.status)).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func result(ok bool) string {
	if ok {
		return ResultOK
	}
	return ResultError
}
