package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/architeacher/svc-health-gate/internal/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	metricsNamespace = "health_gate"
)

type (
	Metrics interface {
		RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration, requestSize, responseSize int64)
		RecordReadinessCheck(ctx context.Context, duration time.Duration, status string, timedOut bool)
		RecordDependencyProbe(ctx context.Context, name string, duration time.Duration, success bool)
		Handler() http.Handler
		Shutdown(ctx context.Context) error
	}

	OTELMetrics struct {
		meterProvider *sdkmetric.MeterProvider
		meter         metric.Meter
		logger        Logger

		httpRequestTotal        metric.Int64Counter
		httpRequestDuration     metric.Float64Histogram
		httpRequestSize         metric.Int64Histogram
		httpResponseSize        metric.Int64Histogram
		readinessCheckTotal     metric.Int64Counter
		readinessCheckDuration  metric.Float64Histogram
		readinessTimeoutTotal   metric.Int64Counter
		dependencyProbeTotal    metric.Int64Counter
		dependencyProbeDuration metric.Float64Histogram
	}
)

func NewMetrics(ctx context.Context, cfg config.ServiceConfig, logger Logger) (Metrics, error) {
	if !cfg.Telemetry.Metrics.Enabled {
		logger.Info().Msg("metrics disabled, using NoOp implementation")

		return &NoOpMetrics{}, nil
	}

	return NewOTELMetrics(ctx, cfg, logger)
}

func NewOTELMetrics(ctx context.Context, cfg config.ServiceConfig, logger Logger) (*OTELMetrics, error) {
	endpoint := fmt.Sprintf("%s:%s", cfg.Telemetry.OtelGRPCHost, cfg.Telemetry.OtelGRPCPort)

	conn, err := grpc.NewClient(
		endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to OTEL collector: %w", err)
	}

	exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.AppConfig.ServiceName),
			semconv.ServiceVersionKey.String(cfg.AppConfig.ServiceVersion),
			semconv.ServiceInstanceIDKey.String(cfg.AppConfig.CommitSHA),
			semconv.DeploymentEnvironmentKey.String(cfg.AppConfig.Env),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		metricsNamespace,
		metric.WithInstrumentationVersion(cfg.AppConfig.ServiceVersion),
	)

	provider := &OTELMetrics{
		meterProvider: meterProvider,
		meter:         meter,
		logger:        logger,
	}

	if err := provider.initializeMetrics(); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	logger.Info().
		Str("otel_endpoint", endpoint).
		Msg("OTEL metrics provider initialized successfully")

	return provider, nil
}

func (om *OTELMetrics) initializeMetrics() error {
	var err error

	om.httpRequestTotal, err = om.meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	om.httpRequestDuration, err = om.meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	om.httpRequestSize, err = om.meter.Int64Histogram(
		"http_request_size_bytes",
		metric.WithDescription("HTTP request size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_request_size_bytes histogram: %w", err)
	}

	om.httpResponseSize, err = om.meter.Int64Histogram(
		"http_response_size_bytes",
		metric.WithDescription("HTTP response size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create http_response_size_bytes histogram: %w", err)
	}

	om.readinessCheckTotal, err = om.meter.Int64Counter(
		"readiness_checks_total",
		metric.WithDescription("Total number of readiness checks performed"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create readiness_checks_total counter: %w", err)
	}

	om.readinessCheckDuration, err = om.meter.Float64Histogram(
		"readiness_check_duration_seconds",
		metric.WithDescription("Readiness check duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create readiness_check_duration_seconds histogram: %w", err)
	}

	om.readinessTimeoutTotal, err = om.meter.Int64Counter(
		"readiness_timeouts_total",
		metric.WithDescription("Total number of readiness checks cut off by the aggregate deadline"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create readiness_timeouts_total counter: %w", err)
	}

	om.dependencyProbeTotal, err = om.meter.Int64Counter(
		"dependency_probes_total",
		metric.WithDescription("Total number of dependency probes performed"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create dependency_probes_total counter: %w", err)
	}

	om.dependencyProbeDuration, err = om.meter.Float64Histogram(
		"dependency_probe_duration_seconds",
		metric.WithDescription("Dependency probe duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create dependency_probe_duration_seconds histogram: %w", err)
	}

	return nil
}

func (om *OTELMetrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration, requestSize, responseSize int64) {
	om.httpRequestTotal.Add(ctx, 1,
		metric.WithAttributes(
			HTTPMethodAttr(method),
			HTTPPathAttr(path),
			HTTPStatusCodeAttr(statusCode),
		),
	)

	om.httpRequestDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			HTTPMethodAttr(method),
			HTTPPathAttr(path),
			HTTPStatusCodeAttr(statusCode),
		),
	)

	om.httpRequestSize.Record(ctx, requestSize,
		metric.WithAttributes(
			HTTPMethodAttr(method),
			HTTPPathAttr(path),
		),
	)

	om.httpResponseSize.Record(ctx, responseSize,
		metric.WithAttributes(
			HTTPMethodAttr(method),
			HTTPPathAttr(path),
			HTTPStatusCodeAttr(statusCode),
		),
	)
}

func (om *OTELMetrics) RecordReadinessCheck(ctx context.Context, duration time.Duration, status string, timedOut bool) {
	om.readinessCheckTotal.Add(ctx, 1,
		metric.WithAttributes(
			StatusAttr(status),
			TimedOutAttr(timedOut),
		),
	)

	om.readinessCheckDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			StatusAttr(status),
		),
	)

	if timedOut {
		om.readinessTimeoutTotal.Add(ctx, 1)
	}
}

func (om *OTELMetrics) RecordDependencyProbe(ctx context.Context, name string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	om.dependencyProbeTotal.Add(ctx, 1,
		metric.WithAttributes(
			DependencyAttr(name),
			StatusAttr(status),
		),
	)

	om.dependencyProbeDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			DependencyAttr(name),
		),
	)
}

func (om *OTELMetrics) Handler() http.Handler {
	return promhttp.Handler()
}

func (om *OTELMetrics) Shutdown(ctx context.Context) error {
	if err := om.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}

	return nil
}
