// Package metrics provides the centralized Prometheus metrics registry for
// the analysis core.
package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "court_edge",
		Name:      "analyses_total",
		Help:      "Total number of match analyses performed",
	})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "court_edge",
		Name:      "recommendations_total",
		Help:      "Total number of stake recommendations by outcome",
	}, []string{"outcome"})
	BetsPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "court_edge",
		Name:      "bets_placed_total",
		Help:      "Total number of bets written to the ledger",
	})
	ConflictRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "court_edge",
		Name:      "conflict_rejections_total",
		Help:      "Total number of conflict guard rejections by kind",
	}, []string{"kind"})
	InsufficientDataTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "court_edge",
		Name:      "insufficient_data_total",
		Help:      "Total number of pairs skipped because both players lack history",
	})
	ProbabilityClampsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "court_edge",
		Name:      "probability_clamps_total",
		Help:      "Total number of probability clamps applied during aggregation",
	})
)

// Gauge metrics
var (
	ActiveBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "court_edge",
		Name:      "active_bets",
		Help:      "Number of currently active bets",
	})
	LastBatchSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "court_edge",
		Name:      "last_batch_size",
		Help:      "Number of match-pairs in the most recent batch analysis",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "court_edge",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of a single match analysis in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "court_edge",
		Name:      "batch_duration_seconds",
		Help:      "Duration of batch analysis runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(BetsPlacedTotal)
		registry.MustRegister(ConflictRejectionsTotal)
		registry.MustRegister(InsufficientDataTotal)
		registry.MustRegister(ProbabilityClampsTotal)

		registry.MustRegister(ActiveBets)
		registry.MustRegister(LastBatchSize)

		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(BatchDuration)
	})
	return registry
}

// StartServer serves the metrics endpoint on the configured port.
func StartServer(port int, path string) *http.Server {
	reg := InitRegistry()

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = server.ListenAndServe()
	}()

	return server
}
