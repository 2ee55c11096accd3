package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60, 180},
		},
		[]string{"route", "method"},
	)

	GenerationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_requests_total",
			Help: "Total number of text generation calls by model and outcome",
		},
		[]string{"model", "outcome"},
	)
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Text generation call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"model"},
	)

	AnalysesStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analyses_started_total",
			Help: "Total number of analysis pipeline runs started",
		},
	)
	AnalysesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analyses_completed_total",
			Help: "Total number of analysis pipeline runs completed and persisted",
		},
	)
	AnalysesFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyses_failed_total",
			Help: "Total number of analysis pipeline runs failed, by reason",
		},
		[]string{"reason"},
	)

	// Outcome distributions
	VerdictTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_verdict_total",
			Help: "Distribution of hiring verdicts",
		},
		[]string{"verdict"},
	)
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_overall_match_score",
			Help:    "Distribution of overall_match_score ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(GenerationRequestsTotal)
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(AnalysesStartedTotal)
	prometheus.MustRegister(AnalysesCompletedTotal)
	prometheus.MustRegister(AnalysesFailedTotal)
	prometheus.MustRegister(VerdictTotal)
	prometheus.MustRegister(OverallScoreHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveGeneration records one text generation call.
func ObserveGeneration(model string, dur time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	GenerationRequestsTotal.WithLabelValues(model, outcome).Inc()
	GenerationDuration.WithLabelValues(model).Observe(dur.Seconds())
}

// ObserveVerdict records the outcome of a completed analysis.
func ObserveVerdict(verdict string, overallScore int) {
	VerdictTotal.WithLabelValues(verdict).Inc()
	if overallScore >= 0 && overallScore <= 100 {
		OverallScoreHistogram.Observe(float64(overallScore))
	}
}
