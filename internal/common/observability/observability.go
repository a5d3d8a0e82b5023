package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"lead-qualifier/internal/common/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Observability bundles the otel meter and tracer used around conversation
// turns. The zero value is not usable; build it with New or NewNoop.
type Observability struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer

	turnCounter     otelmetric.Int64Counter
	turnDuration    otelmetric.Float64Histogram
	classifications otelmetric.Int64Counter
}

// New wires a prometheus-backed meter provider and, when tracing is enabled,
// a jaeger span exporter.
func New(serviceName string, cfg config.TracingConfig) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(meterProvider)

	o := &Observability{meterProvider: meterProvider}

	if cfg.Enabled {
		spanExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(cfg.JaegerEndpoint)))
		if err != nil {
			return nil, fmt.Errorf("create jaeger exporter: %w", err)
		}
		o.tracerProvider = sdktrace.NewTracerProvider(sdktrace.WithBatcher(spanExporter))
		otel.SetTracerProvider(o.tracerProvider)
		o.tracer = o.tracerProvider.Tracer(serviceName)
	} else {
		o.tracer = tracenoop.NewTracerProvider().Tracer(serviceName)
	}

	if err := o.initInstruments(meterProvider.Meter(serviceName)); err != nil {
		return nil, err
	}
	return o, nil
}

func NewNoop() *Observability {
	o := &Observability{tracer: tracenoop.NewTracerProvider().Tracer("noop")}
	_ = o.initInstruments(metricnoop.NewMeterProvider().Meter("noop"))
	return o
}

func (o *Observability) initInstruments(meter otelmetric.Meter) error {
	var err error
	o.turnCounter, err = meter.Int64Counter(
		"lead.turns",
		otelmetric.WithDescription("Number of user turns processed"),
	)
	if err != nil {
		return fmt.Errorf("create turn counter: %w", err)
	}

	o.turnDuration, err = meter.Float64Histogram(
		"lead.turn.duration",
		otelmetric.WithDescription("User turn processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("create turn histogram: %w", err)
	}

	o.classifications, err = meter.Int64Counter(
		"lead.classifications",
		otelmetric.WithDescription("Number of finalized classifications"),
	)
	if err != nil {
		return fmt.Errorf("create classification counter: %w", err)
	}
	return nil
}

func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err on the span, if any, and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (o *Observability) RecordTurn(ctx context.Context, industry, outcome string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(
		attribute.String("industry", industry),
		attribute.String("outcome", outcome),
	)
	o.turnCounter.Add(ctx, 1, attrs)
	o.turnDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

func (o *Observability) RecordClassification(ctx context.Context, industry, status string) {
	o.classifications.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("industry", industry),
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}
