// Package metrics exposes calibration diagnostics as prometheus
// collectors. Metrics are strictly observational: nothing here feeds back
// into the calibration.
package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JustinArndtAI/multi-parameter-causal-oracle/internal/logging"
)

// Recorder receives calibration progress events.
type Recorder interface {
	// IncEvaluations counts one objective evaluation for a stage.
	IncEvaluations(stage string)

	// SetBestRMSE records the best RMSE a stage has reached.
	SetBestRMSE(stage string, rmse float64)
}

// Noop is a Recorder that discards everything. Used when the diagnostics
// listener is disabled and in tests.
type Noop struct{}

func (Noop) IncEvaluations(string)       {}
func (Noop) SetBestRMSE(string, float64) {}

// Prometheus is a Recorder backed by a dedicated prometheus registry.
type Prometheus struct {
	registry    *prometheus.Registry
	evaluations *prometheus.CounterVec
	bestRMSE    *prometheus.GaugeVec
}

// NewPrometheus creates a Prometheus recorder with its collectors
// registered.
func NewPrometheus() *Prometheus {
	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calibration_objective_evaluations_total",
		Help: "Objective evaluations spent, by calibration stage.",
	}, []string{"stage"})
	bestRMSE := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "calibration_stage_best_rmse",
		Help: "Best trajectory RMSE found so far, by calibration stage.",
	}, []string{"stage"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(evaluations, bestRMSE)

	return &Prometheus{
		registry:    registry,
		evaluations: evaluations,
		bestRMSE:    bestRMSE,
	}
}

func (p *Prometheus) IncEvaluations(stage string) {
	p.evaluations.WithLabelValues(stage).Inc()
}

func (p *Prometheus) SetBestRMSE(stage string, rmse float64) {
	p.bestRMSE.WithLabelValues(stage).Set(rmse)
}

// Handler returns the diagnostics router: /metrics and /healthz.
func (p *Prometheus) Handler(logger *logging.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.Middleware(logger))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
	return r
}
