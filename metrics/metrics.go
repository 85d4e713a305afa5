// Package metrics exposes Prometheus instrumentation for the recovery
// service and serves it on a dedicated listener.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reconstruction outcome label values.
const (
	OutcomeSuccess      = "success"
	OutcomeInsufficient = "insufficient_consistency"
	OutcomeError        = "error"
)

var (
	// ReconstructionsTotal counts reconstruction runs by outcome.
	ReconstructionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recovery_reconstructions_total",
		Help: "Reconstruction runs by outcome.",
	}, []string{"outcome"})

	// SubsetsEvaluated counts candidate subsets scored across all runs.
	SubsetsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recovery_subsets_evaluated_total",
		Help: "Candidate share subsets evaluated across all reconstruction runs.",
	})

	// OutliersDetected counts shares flagged as inconsistent.
	OutliersDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recovery_outliers_detected_total",
		Help: "Shares flagged as disagreeing with the consensus polynomial.",
	})

	// ReconstructionDuration observes wall-clock reconstruction time.
	ReconstructionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recovery_reconstruction_duration_seconds",
		Help:    "Wall-clock duration of reconstruction runs.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
	})
)

// ObserveReconstruction records one finished run.
func ObserveReconstruction(outcome string, subsets uint64, outliers int, elapsed time.Duration) {
	ReconstructionsTotal.WithLabelValues(outcome).Inc()
	SubsetsEvaluated.Add(float64(subsets))
	OutliersDetected.Add(float64(outliers))
	ReconstructionDuration.Observe(elapsed.Seconds())
}

// MetricsServer serves the Prometheus endpoint on its own listener. A server
// created with an empty address is inert; ListenAndServe and Shutdown become
// no-ops, which lets callers wire it unconditionally.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for the given service name and listen
// address.
func New(name, listenAddr string) (*MetricsServer, error) {
	if listenAddr == "" {
		return &MetricsServer{}, nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:         listenAddr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}, nil
}

// ListenAndServe blocks serving the metrics endpoint.
func (m *MetricsServer) ListenAndServe() error {
	if m.srv == nil {
		return nil
	}
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	if m.srv == nil {
		return nil
	}
	return m.srv.Shutdown(ctx)
}
