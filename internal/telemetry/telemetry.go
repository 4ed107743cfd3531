// Package telemetry настраивает трассировку OpenTelemetry и экспорт метрик в Prometheus.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/RoGogDBD/inventory/internal/config"
)

// Providers содержит активные компоненты телеметрии.
type Providers struct {
	// MetricsHandler отдает метрики в формате Prometheus; nil, если метрики выключены.
	MetricsHandler http.Handler
	Metrics        *Metrics

	shutdowns []func(context.Context) error
}

// Init настраивает глобальные TracerProvider и MeterProvider по cfg и регистрирует
// доменные счетчики. Выключенные компоненты остаются no-op.
func Init(ctx context.Context, cfg config.TelemetryConfig) (*Providers, error) {
	p := &Providers{}

	if cfg.TracesEnabled || cfg.MetricsEnabled {
		res, err := resource.New(ctx, resource.WithAttributes(
			attribute.String("service.name", cfg.ServiceName),
			attribute.String("deployment.environment", cfg.Environment),
		))
		if err != nil {
			return nil, fmt.Errorf("telemetry resource: %w", err)
		}
		if cfg.TracesEnabled {
			if err := p.initTraces(ctx, cfg, res); err != nil {
				return nil, err
			}
		}
		if cfg.MetricsEnabled {
			if err := p.initMetrics(res); err != nil {
				return nil, err
			}
		}
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	metrics, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	p.Metrics = metrics
	return p, nil
}

func (p *Providers) initTraces(ctx context.Context, cfg config.TelemetryConfig, res *resource.Resource) error {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.OTLPEndpoint)}
	if cfg.OTLPInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("otlp trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceSampleRatio))),
	)
	otel.SetTracerProvider(tp)
	p.shutdowns = append(p.shutdowns, tp.Shutdown)
	return nil
}

func (p *Providers) initMetrics(res *resource.Resource) error {
	registry := prom.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("prometheus exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)
	p.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	p.shutdowns = append(p.shutdowns, mp.Shutdown)
	return nil
}

// WrapHandler оборачивает h серверной инструментацией otelhttp.
func (p *Providers) WrapHandler(h http.Handler, operation string) http.Handler {
	return otelhttp.NewHandler(h, operation)
}

// Shutdown сбрасывает буферы и останавливает провайдеры.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var joined error
	for _, shutdown := range p.shutdowns {
		joined = errors.Join(joined, shutdown(ctx))
	}
	return joined
}
