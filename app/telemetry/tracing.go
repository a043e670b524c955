// Package telemetry configures OpenTelemetry tracing and metrics for the
// stakedlearn runtime.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	metricsdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

const serviceName = "stakedlearn"

// Config holds the configuration for telemetry
type Config struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp-endpoint"`
	SampleRate   float64 `mapstructure:"sample-rate"`
	Environment  string  `mapstructure:"environment"`
	ChainID      string  `mapstructure:"-"`
	Version      string  `mapstructure:"-"`

	// PrometheusEnabled exports action metrics through the default prometheus registry.
	PrometheusEnabled bool `mapstructure:"prometheus-enabled"`
}

// DefaultConfig returns telemetry disabled with full sampling once enabled.
func DefaultConfig() Config {
	return Config{
		OTLPEndpoint:      "localhost:4318",
		SampleRate:        1.0,
		Environment:       "devnet",
		PrometheusEnabled: true,
	}
}

// Validate checks an enabled config.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.OTLPEndpoint == "" {
		return errors.New("otlp endpoint is required")
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample rate %v must be between 0 and 1", c.SampleRate)
	}
	return nil
}

// Provider owns the SDK providers installed as otel globals. The runtime
// instruments itself through the globals, so a disabled Provider leaves the
// no-op implementations in place.
type Provider struct {
	shutdown []func(context.Context) error
}

// NewProvider installs an OTLP/HTTP span exporter and, when enabled, a
// prometheus metric reader as the global otel providers.
func NewProvider(cfg Config) (*Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}
	p := &Provider{}
	if !cfg.Enabled {
		return p, nil
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(cfg.Version),
		attribute.String("environment", cfg.Environment),
		attribute.String("chain.id", cfg.ChainID),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.OTLPEndpoint, "http://"), "https://")
	exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exporter, tracesdk.WithBatchTimeout(5*time.Second)),
		tracesdk.WithResource(res),
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(cfg.SampleRate))),
	)
	otel.SetTracerProvider(tp)
	p.shutdown = append(p.shutdown, tp.Shutdown)

	if cfg.PrometheusEnabled {
		reader, err := prometheus.New()
		if err != nil {
			return nil, errors.Join(fmt.Errorf("failed to create Prometheus exporter: %w", err), tp.Shutdown(context.Background()))
		}
		mp := metricsdk.NewMeterProvider(metricsdk.WithResource(res), metricsdk.WithReader(reader))
		otel.SetMeterProvider(mp)
		p.shutdown = append(p.shutdown, mp.Shutdown)
	}
	return p, nil
}

// Shutdown flushes pending spans and stops the installed providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}
