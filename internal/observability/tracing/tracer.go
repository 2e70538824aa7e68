package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"smartvision/pkg/config"
)

// TracerName is the instrumentation name used for HTTP spans.
const TracerName = "smartvision"

// GetTracer returns the application tracer from the global provider.
// It is looked up on every call so a provider installed later is honoured.
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Config configures the tracer provider.
type Config struct {
	// Enabled installs an SDK provider; when false the global no-op provider stays.
	Enabled     bool
	ServiceName string
	Version     string
	// SampleRatio is the fraction of root traces sampled, in [0, 1].
	SampleRatio float64
	// Exporter receives finished spans; nil keeps spans in-process only, which
	// still gives every request a trace id for log correlation.
	Exporter sdktrace.SpanExporter
}

// LoadConfig reads TRACING_ENABLED (default true) and TRACING_SAMPLE_RATIO
// (default 1.0).
func LoadConfig(serviceName, version string) Config {
	return Config{
		Enabled:     config.GetEnvBool("TRACING_ENABLED", true),
		ServiceName: serviceName,
		Version:     version,
		SampleRatio: config.GetEnvFloat("TRACING_SAMPLE_RATIO", 1.0),
	}
}

// InitProvider installs a global tracer provider and the W3C trace context
// propagator. The returned function flushes and stops the provider.
func InitProvider(cfg Config) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		return noop, fmt.Errorf("tracing: sample ratio %v out of range [0, 1]", cfg.SampleRatio)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = TracerName
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.Version),
	)
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
	}
	if cfg.Exporter != nil {
		opts = append(opts, sdktrace.WithBatcher(cfg.Exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}
