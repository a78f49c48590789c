package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "feedback", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "feedback", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	OracleRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "feedback", Name: "oracle_requests_total", Help: "Remote oracle requests."},
		[]string{"oracle", "status"},
	)
	OracleLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "feedback", Name: "oracle_request_duration_seconds",
			Help:    "Remote oracle request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"oracle"},
	)
	CacheEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "feedback", Name: "cache_events_total", Help: "Cache hits/misses/sets/dels."},
		[]string{"cache", "event"}, // event: hit|miss|set|del|error
	)
	ReviewsAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "feedback", Name: "reviews_analyzed_total", Help: "Scored reviews by label."},
		[]string{"source", "sentiment"},
	)
	RowsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "feedback", Name: "rows_skipped_total", Help: "Rows dropped by the skip policy."},
		[]string{"source"},
	)
	IssuesDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "feedback", Name: "issues_detected_total", Help: "Issue categories found in negative reviews."},
		[]string{"issue"},
	)
	AnalysisRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "feedback", Name: "analysis_runs_total", Help: "Analysis runs by outcome."},
		[]string{"source", "outcome"},
	)
)

// Serve exposes reg on addr in the background. Empty addr disables it and
// returns nil.
func Serve(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, OracleRequests, OracleLatency, CacheEvents,
		ReviewsAnalyzed, RowsSkipped, IssuesDetected, AnalysisRuns)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveOracle(oracle string, status int, dur time.Duration) {
	OracleRequests.WithLabelValues(oracle, strconv.Itoa(status)).Inc()
	OracleLatency.WithLabelValues(oracle).Observe(dur.Seconds())
}

func ObserveCache(cache, event string) { // event: hit|miss|set|del|error
	CacheEvents.WithLabelValues(cache, event).Inc()
}

// ObserveReview records one scored review and the issues found on it.
func ObserveReview(source, sentiment string, issues []string) {
	ReviewsAnalyzed.WithLabelValues(source, sentiment).Inc()
	for _, is := range issues {
		IssuesDetected.WithLabelValues(is).Inc()
	}
}

func ObserveRun(source string, skipped int, err error) {
	if skipped > 0 {
		RowsSkipped.WithLabelValues(source).Add(float64(skipped))
	}
	AnalysisRuns.WithLabelValues(source, LabelErr(err)).Inc()
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
