package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

var (
	promReaderFactory = prometheusComponents
	otlpReaderFactory = buildOTLPReader
	instrumentFactory = newOtelInstruments
)

// TelemetryConfig controls how metrics are exported.
type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	OtlpEndpoint string
	OtlpInsecure bool
}

// Setup configures OpenTelemetry metrics with a Prometheus exporter and
// optional OTLP exporter. It returns a Recorder, the Prometheus HTTP
// handler, and a shutdown function.
func Setup(ctx context.Context, cfg TelemetryConfig) (*Recorder, http.Handler, func(context.Context) error, error) {
	if !cfg.Enabled {
		return NewRecorder(), nil, func(context.Context) error { return nil }, nil
	}

	if cfg.ServiceName == "" {
		cfg.ServiceName = "schedule-engine"
	}

	promReader, promHandler, err := promReaderFactory()
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []sdkmetric.Option{sdkmetric.WithReader(promReader)}

	if cfg.OtlpEndpoint != "" {
		otlpReader, err := otlpReaderFactory(ctx, cfg.OtlpEndpoint, cfg.OtlpInsecure)
		if err != nil {
			return nil, nil, nil, err
		}
		opts = append(opts, sdkmetric.WithReader(otlpReader))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append(opts, sdkmetric.WithResource(res))

	provider := sdkmetric.NewMeterProvider(opts...)

	otelInst, err := instrumentFactory(provider)
	if err != nil {
		return nil, nil, nil, err
	}

	rec := newRecorder(otelInst)
	shutdown := func(c context.Context) error {
		return provider.Shutdown(c)
	}

	return rec, promHandler, shutdown, nil
}

func buildOTLPReader(ctx context.Context, endpoint string, insecure bool) (sdkmetric.Reader, error) {
	otlpOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(endpoint)}
	if insecure {
		otlpOpts = append(otlpOpts, otlpmetrichttp.WithInsecure())
	}
	otlpExp, err := otlpmetrichttp.New(ctx, otlpOpts...)
	if err != nil {
		return nil, err
	}
	return sdkmetric.NewPeriodicReader(otlpExp, sdkmetric.WithInterval(15*time.Second)), nil
}

func prometheusComponents() (sdkmetric.Reader, http.Handler, error) {
	reg := prometheus.NewRegistry()
	promExp, err := promexporter.New(promexporter.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	return promExp, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

type otelInstruments struct {
	meter             metric.Meter
	evaluations       metric.Int64Counter
	evaluationErrors  metric.Int64Counter
	evaluationLatency metric.Float64Histogram
	cacheLookups      metric.Int64Counter
	scenarioCycles    metric.Int64Counter
	scenarioErrors    metric.Int64Counter
	scenarioLatency   metric.Float64Histogram
	conflictsFound    metric.Int64Counter
	conflictLatency   metric.Float64Histogram
}

func newOtelInstruments(provider metric.MeterProvider) (*otelInstruments, error) {
	meter := provider.Meter("schedule-engine")

	evaluations, err := meter.Int64Counter("constraint_evaluations_total")
	if err != nil {
		return nil, err
	}
	evaluationErrors, err := meter.Int64Counter("constraint_evaluation_errors_total")
	if err != nil {
		return nil, err
	}
	evaluationLatency, err := meter.Float64Histogram("constraint_evaluation_duration_ms")
	if err != nil {
		return nil, err
	}
	cacheLookups, err := meter.Int64Counter("evaluation_cache_lookups_total")
	if err != nil {
		return nil, err
	}
	scenarioCycles, err := meter.Int64Counter("scenario_generations_total")
	if err != nil {
		return nil, err
	}
	scenarioErrors, err := meter.Int64Counter("scenario_generation_errors_total")
	if err != nil {
		return nil, err
	}
	scenarioLatency, err := meter.Float64Histogram("scenario_generation_duration_ms")
	if err != nil {
		return nil, err
	}
	conflictsFound, err := meter.Int64Counter("conflicts_detected_total")
	if err != nil {
		return nil, err
	}
	conflictLatency, err := meter.Float64Histogram("conflict_detection_duration_ms")
	if err != nil {
		return nil, err
	}

	return &otelInstruments{
		meter:             meter,
		evaluations:       evaluations,
		evaluationErrors:  evaluationErrors,
		evaluationLatency: evaluationLatency,
		cacheLookups:      cacheLookups,
		scenarioCycles:    scenarioCycles,
		scenarioErrors:    scenarioErrors,
		scenarioLatency:   scenarioLatency,
		conflictsFound:    conflictsFound,
		conflictLatency:   conflictLatency,
	}, nil
}

func (o *otelInstruments) recordEvaluation(constraintID string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.String(AttrConstraint, constraintID)}
	o.recordCounter(o.evaluations, 1, attrs...)
	o.recordHistogram(o.evaluationLatency, float64(duration.Milliseconds()), attrs...)
	if err != nil {
		o.recordCounter(o.evaluationErrors, 1, attrs...)
	}
}

func (o *otelInstruments) recordCacheLookup(constraintID string, hit bool) {
	if o == nil {
		return
	}
	o.recordCounter(o.cacheLookups, 1,
		attribute.String(AttrConstraint, constraintID),
		attribute.Bool(AttrCacheHit, hit),
	)
}

func (o *otelInstruments) recordScenario(duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.recordCounter(o.scenarioCycles, 1)
	o.recordHistogram(o.scenarioLatency, float64(duration.Milliseconds()))
	if err != nil {
		o.recordCounter(o.scenarioErrors, 1)
	}
}

func (o *otelInstruments) recordConflicts(count int, duration time.Duration) {
	if o == nil {
		return
	}
	o.recordCounter(o.conflictsFound, int64(count))
	o.recordHistogram(o.conflictLatency, float64(duration.Milliseconds()))
}

func (o *otelInstruments) recordCounter(c metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if c == nil {
		return
	}
	c.Add(context.Background(), value, metric.WithAttributes(attrs...))
}

func (o *otelInstruments) recordHistogram(h metric.Float64Histogram, value float64, attrs ...attribute.KeyValue) {
	if h == nil {
		return
	}
	h.Record(context.Background(), value, metric.WithAttributes(attrs...))
}
