package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Service name for telemetry
	serviceName = "taskmesh-engine"

	// Metric names
	metricTaskExecutions = "task.executions.total"
	metricTaskDuration   = "task.execution.duration"
	metricTaskSuccess    = "task.executions.success.total"
	metricTaskFailure    = "task.executions.failure.total"
	metricJobExecutions  = "job.executions.total"
	metricJobDuration    = "job.execution.duration"
	metricJobSuccess     = "job.executions.success.total"
	metricJobFailure     = "job.executions.failure.total"
)

// Provider manages OpenTelemetry setup and provides access to tracers and meters.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	// Metrics instruments
	taskExecutions metric.Int64Counter
	taskDuration   metric.Float64Histogram
	taskSuccess    metric.Int64Counter
	taskFailure    metric.Int64Counter
	jobExecutions  metric.Int64Counter
	jobDuration    metric.Float64Histogram
	jobSuccess     metric.Int64Counter
	jobFailure     metric.Int64Counter

	mu sync.RWMutex
}

// Config holds telemetry configuration
type Config struct {
	// ServiceName is the name of the service for telemetry
	ServiceName string

	// ServiceVersion is the version of the service
	ServiceVersion string

	// Environment (e.g., "production", "staging", "development")
	Environment string

	// EnableTracing enables distributed tracing
	EnableTracing bool

	// EnableMetrics enables metrics collection
	EnableMetrics bool
}

// DefaultConfig returns default telemetry configuration
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// NewProvider creates a new telemetry provider with Prometheus metrics exporter.
// It initializes OpenTelemetry with the given configuration and returns a provider
// that can be used to create tracers and record metrics.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	// Create resource with service information
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	// Initialize metrics if enabled
	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	// Initialize tracing if enabled
	if config.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

// initMetrics initializes the metrics provider with Prometheus exporter
func (p *Provider) initMetrics(res *resource.Resource) error {
	// Create Prometheus exporter
	exporter, err := prometheus.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	// Create meter provider with the exporter
	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	// Set as global meter provider
	otel.SetMeterProvider(p.meterProvider)

	// Create meter
	p.meter = p.meterProvider.Meter(serviceName)

	// Create metric instruments
	if err := p.createMetricInstruments(); err != nil {
		return fmt.Errorf("failed to create metric instruments: %w", err)
	}

	return nil
}

// initTracing initializes the tracing provider
func (p *Provider) initTracing() {
	// For now, use the global tracer provider
	// In production, this should be configured with appropriate exporters (OTLP, Jaeger, etc.)
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

// createMetricInstruments creates all metric instruments
func (p *Provider) createMetricInstruments() error {
	var err error

	// Task metrics
	p.taskExecutions, err = p.meter.Int64Counter(
		metricTaskExecutions,
		metric.WithDescription("Total number of task executions"),
	)
	if err != nil {
		return err
	}

	p.taskDuration, err = p.meter.Float64Histogram(
		metricTaskDuration,
		metric.WithDescription("Task execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.taskSuccess, err = p.meter.Int64Counter(
		metricTaskSuccess,
		metric.WithDescription("Total number of successful task executions"),
	)
	if err != nil {
		return err
	}

	p.taskFailure, err = p.meter.Int64Counter(
		metricTaskFailure,
		metric.WithDescription("Total number of failed task executions"),
	)
	if err != nil {
		return err
	}

	// Job metrics
	p.jobExecutions, err = p.meter.Int64Counter(
		metricJobExecutions,
		metric.WithDescription("Total number of job firings"),
	)
	if err != nil {
		return err
	}

	p.jobDuration, err = p.meter.Float64Histogram(
		metricJobDuration,
		metric.WithDescription("Job run duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	p.jobSuccess, err = p.meter.Int64Counter(
		metricJobSuccess,
		metric.WithDescription("Total number of successful job firings"),
	)
	if err != nil {
		return err
	}

	p.jobFailure, err = p.meter.Int64Counter(
		metricJobFailure,
		metric.WithDescription("Total number of failed job firings"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordTaskExecution records metrics for a completed task.
func (p *Provider) RecordTaskExecution(ctx context.Context, graph string, duration time.Duration, success bool, jobsFired int) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("graph", graph),
		attribute.Int("jobs.fired", jobsFired),
	}

	p.taskExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.taskDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if success {
		p.taskSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.taskFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordJobExecution records metrics for a single job firing.
func (p *Provider) RecordJobExecution(ctx context.Context, jobName string, duration time.Duration, success bool) {
	if p.meter == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("job.name", jobName),
	}

	p.jobExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.jobDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if success {
		p.jobSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.jobFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// Shutdown gracefully shuts down the telemetry provider
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
	}

	return nil
}
