package otel

import (
	"context"
	"fmt"

	config "github.com/agentic-mesh/a2a/server/config"
	otel "go.opentelemetry.io/otel"
	attribute "go.opentelemetry.io/otel/attribute"
	prometheus "go.opentelemetry.io/otel/exporters/prometheus"
	metric "go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	resource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	zap "go.uber.org/zap"
)

// OpenTelemetry defines the operations for telemetry
type OpenTelemetry interface {
	// Request level metrics
	RecordRequestCount(ctx context.Context, method string)
	RecordResponseStatus(ctx context.Context, method, path string, statusCode int)
	RecordRequestDuration(ctx context.Context, method, path string, durationMs float64)

	// Shutdown the telemetry system
	ShutDown(ctx context.Context) error
}

type OpenTelemetryImpl struct {
	logger        *zap.Logger
	agentID       string
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter

	requestCounter           metric.Int64Counter
	responseStatusCounter    metric.Int64Counter
	requestDurationHistogram metric.Float64Histogram
}

var _ OpenTelemetry = (*OpenTelemetryImpl)(nil)

// NewOpenTelemetry creates a new OpenTelemetry implementation with a
// prometheus exporter backing the meter provider.
func NewOpenTelemetry(cfg *config.Config, logger *zap.Logger) (OpenTelemetry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	o := &OpenTelemetryImpl{
		logger:  logger,
		agentID: cfg.AgentID,
	}

	if err := o.initialize(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize opentelemetry: %w", err)
	}

	return o, nil
}

func (o *OpenTelemetryImpl) initialize(cfg *config.Config) error {
	o.logger.Info("initializing opentelemetry", zap.String("agent_id", cfg.AgentID))

	exporter, err := prometheus.New()
	if err != nil {
		o.logger.Error("failed to create prometheus exporter", zap.Error(err))
		return err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.AgentID),
	)

	histogramBoundaries := []float64{1, 5, 10, 25, 50, 75, 100, 250, 500, 750, 1000, 2500, 5000, 7500, 10000}

	latencyView := sdkmetric.NewView(
		sdkmetric.Instrument{
			Kind: sdkmetric.InstrumentKindHistogram,
		},
		sdkmetric.Stream{
			Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: histogramBoundaries,
			},
		},
	)

	o.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
		sdkmetric.WithView(latencyView),
	)

	otel.SetMeterProvider(o.meterProvider)
	o.meter = o.meterProvider.Meter("a2a-agent")

	o.requestCounter, err = o.meter.Int64Counter(
		"a2a_requests_total",
		metric.WithDescription("Total number of inbound A2A requests"),
	)
	if err != nil {
		return err
	}

	o.responseStatusCounter, err = o.meter.Int64Counter(
		"a2a_response_status_total",
		metric.WithDescription("Total responses by HTTP status code"),
	)
	if err != nil {
		return err
	}

	o.requestDurationHistogram, err = o.meter.Float64Histogram(
		"a2a_request_duration_ms",
		metric.WithDescription("Inbound request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	o.logger.Debug("opentelemetry metrics initialized")
	return nil
}

// RecordRequestCount increments the inbound request counter
func (o *OpenTelemetryImpl) RecordRequestCount(ctx context.Context, method string) {
	o.requestCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("agent_id", o.agentID),
			attribute.String("method", method),
		))
}

// RecordResponseStatus increments the response status counter
func (o *OpenTelemetryImpl) RecordResponseStatus(ctx context.Context, method, path string, statusCode int) {
	o.responseStatusCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("agent_id", o.agentID),
			attribute.String("method", method),
			attribute.String("path", path),
			attribute.Int("status_code", statusCode),
		))
}

// RecordRequestDuration records the duration of an inbound request
func (o *OpenTelemetryImpl) RecordRequestDuration(ctx context.Context, method, path string, durationMs float64) {
	o.requestDurationHistogram.Record(ctx, durationMs,
		metric.WithAttributes(
			attribute.String("agent_id", o.agentID),
			attribute.String("method", method),
			attribute.String("path", path),
		))
}

// ShutDown shuts down the meter provider, flushing any pending metrics
func (o *OpenTelemetryImpl) ShutDown(ctx context.Context) error {
	if o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
