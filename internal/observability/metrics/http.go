package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	ingestsTotal    *prometheus.CounterVec
	ingestDuration  *prometheus.HistogramVec
	questionsTotal  *prometheus.CounterVec
	answerImages    *prometheus.HistogramVec
	processorErrors *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manualhub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "manualhub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "manualhub",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	ingestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manualhub",
			Subsystem: "ingest",
			Name:      "manuals_total",
			Help:      "Total manual registrations by outcome.",
		},
		[]string{"service", "class", "outcome"},
	)
	ingestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "manualhub",
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Manual registration duration in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"service", "class"},
	)
	questionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manualhub",
			Subsystem: "chat",
			Name:      "questions_total",
			Help:      "Total manual questions by outcome.",
		},
		[]string{"service", "outcome"},
	)
	answerImages := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "manualhub",
			Subsystem: "chat",
			Name:      "answer_images",
			Help:      "Distribution of page images returned per answer.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"service"},
	)
	processorErrors := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manualhub",
			Subsystem: "processor",
			Name:      "errors_total",
			Help:      "Total manual-processing service errors by kind.",
		},
		[]string{"service", "operation", "kind"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		ingestsTotal,
		ingestDuration,
		questionsTotal,
		answerImages,
		processorErrors,
	)

	return &HTTPServerMetrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestInFlight: requestInFlight,
		ingestsTotal:    ingestsTotal,
		ingestDuration:  ingestDuration,
		questionsTotal:  questionsTotal,
		answerImages:    answerImages,
		processorErrors: processorErrors,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses resource IDs so the label set stays bounded.
func normalizePath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.ParseInt(segment, 10, 64); err == nil {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func (m *HTTPServerMetrics) RecordIngest(service, class, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.ingestsTotal.WithLabelValues(service, class, outcome).Inc()
	m.ingestDuration.WithLabelValues(service, class).Observe(duration.Seconds())
}

func (m *HTTPServerMetrics) RecordQuestion(service, outcome string, imageCount int) {
	if outcome == "" {
		outcome = "unknown"
	}
	m.questionsTotal.WithLabelValues(service, outcome).Inc()
	if outcome == "ok" {
		m.answerImages.WithLabelValues(service).Observe(float64(imageCount))
	}
}

func (m *HTTPServerMetrics) RecordProcessorError(service, operation, kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.processorErrors.WithLabelValues(service, operation, kind).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}
