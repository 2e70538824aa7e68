package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TRACING_ENABLED", "")
		t.Setenv("TRACING_SAMPLE_RATIO", "")

		cfg := LoadConfig("smartvision-api", "v1")

		assert.True(t, cfg.Enabled)
		assert.Equal(t, 1.0, cfg.SampleRatio)
		assert.Equal(t, "smartvision-api", cfg.ServiceName)
		assert.Equal(t, "v1", cfg.Version)
	})

	t.Run("from env", func(t *testing.T) {
		t.Setenv("TRACING_ENABLED", "false")
		t.Setenv("TRACING_SAMPLE_RATIO", "0.25")

		cfg := LoadConfig("smartvision-worker", "v2")

		assert.False(t, cfg.Enabled)
		assert.Equal(t, 0.25, cfg.SampleRatio)
	})
}

func TestInitProvider_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := InitProvider(Config{Enabled: false})

	require.NoError(t, err)
	assert.Equal(t, before, otel.GetTracerProvider())
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitProvider_InvalidRatio(t *testing.T) {
	_, err := InitProvider(Config{Enabled: true, SampleRatio: 1.5})

	assert.ErrorContains(t, err, "sample ratio")
}

func TestInitProvider_ExportsSpans(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	exporter := tracetest.NewInMemoryExporter()
	shutdown, err := InitProvider(Config{
		Enabled:     true,
		ServiceName: "smartvision-test",
		Version:     "v0",
		SampleRatio: 1,
		Exporter:    exporter,
	})
	require.NoError(t, err)

	_, span := GetTracer().Start(context.Background(), "unit")
	span.End()

	// Shutdown はバッチを書き出す
	require.NoError(t, shutdown(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "unit", spans[0].Name)

	var service string
	for _, kv := range spans[0].Resource.Attributes() {
		if kv.Key == "service.name" {
			service = kv.Value.AsString()
		}
	}
	assert.Equal(t, "smartvision-test", service)
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestInitProvider_ZeroRatioDropsRootSpans(t *testing.T) {
	prevTP := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prevTP) })

	exporter := tracetest.NewInMemoryExporter()
	shutdown, err := InitProvider(Config{Enabled: true, SampleRatio: 0, Exporter: exporter})
	require.NoError(t, err)

	_, span := GetTracer().Start(context.Background(), "dropped")
	assert.False(t, span.SpanContext().IsSampled())
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Empty(t, exporter.GetSpans())
}
