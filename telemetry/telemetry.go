// Package telemetry wires tracing and Prometheus metrics.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/roadwise/roadwise/config"
	"github.com/roadwise/roadwise/constants"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadwise_http_requests_total",
			Help: "Total number of HTTP requests received.",
		},
		[]string{"handler", "method", "code"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roadwise_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"handler", "method"},
	)
	assessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadwise_assessments_total",
			Help: "Risk assessments produced, by risk level.",
		},
		[]string{"level"},
	)
	providerFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadwise_provider_failures_total",
			Help: "Upstream provider calls that failed after retries.",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, assessmentsTotal, providerFailuresTotal)
}

// Shutdown flushes and stops the tracer provider.
type Shutdown func(ctx context.Context) error

// Init sets up the tracing exporter named by cfg: "stdout", "otlp" or
// "none". The returned Shutdown is never nil.
func Init(ctx context.Context, cfg config.TracingConfig) (Shutdown, error) {
	noop := func(context.Context) error { return nil }

	var exp sdktrace.SpanExporter
	var err error
	switch strings.ToLower(cfg.Exporter) {
	case "", constants.TracingExporterNone:
		return noop, nil
	case constants.TracingExporterStdout:
		exp, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
	case constants.TracingExporterOTLP:
		var opts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpointURL(cfg.Endpoint))
		}
		exp, err = otlptracehttp.New(ctx, opts...)
	default:
		return noop, fmt.Errorf("unsupported tracing exporter: %s", cfg.Exporter)
	}
	if err != nil {
		return noop, fmt.Errorf("failed to create %s exporter: %w", cfg.Exporter, err)
	}

	res, err := serviceResource(ctx, cfg.ServiceName)
	if err != nil {
		return noop, fmt.Errorf("failed to build tracing resource: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// serviceResource describes this process to the tracing backend.
func serviceResource(ctx context.Context, serviceName string) (*resource.Resource, error) {
	if serviceName == "" {
		serviceName = constants.ServiceName
	}
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
}

// WrapHandler applies tracing, Prometheus metrics, and otelhttp middleware.
func WrapHandler(name string, next http.Handler) http.Handler {
	// Trace + context propagation
	h := otelhttp.NewHandler(next, name)
	// Metrics middleware
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rw, r)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(name, r.Method, fmt.Sprintf("%d", rw.status)).Inc()
		httpRequestDuration.WithLabelValues(name, r.Method).Observe(dur)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// RecordAssessment counts one assessment at level.
func RecordAssessment(level string) {
	assessmentsTotal.WithLabelValues(level).Inc()
}

// RecordProviderFailure counts one failed call to provider.
func RecordProviderFailure(provider string) {
	providerFailuresTotal.WithLabelValues(provider).Inc()
}

// MetricsHandler returns the Prometheus metrics endpoint handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
