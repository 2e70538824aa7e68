package tracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// installRecorder installs an in-memory provider for the duration of the test.
func installRecorder(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	prevTP := otel.GetTracerProvider()
	prevProp := otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return exporter
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, a := range attrs {
		out[a.Key] = a.Value
	}
	return out
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestMiddleware_CreatesSpan(t *testing.T) {
	exporter := installRecorder(t)

	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	}))
	serve(handler, http.MethodDelete, "/api/pdf/delete/42")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	span := spans[0]

	// ID はスパン名に含めない
	assert.Equal(t, "DELETE /api/pdf/delete/:id", span.Name)

	attrs := attrMap(span.Attributes)
	assert.Equal(t, "DELETE", attrs["http.method"].AsString())
	assert.Equal(t, "/api/pdf/delete/42", attrs["http.path"].AsString())
	assert.Equal(t, "/api/pdf/delete/:id", attrs["http.route"].AsString())
	assert.Equal(t, int64(200), attrs["http.status_code"].AsInt64())
	assert.Equal(t, int64(2), attrs["http.response_size"].AsInt64())
}

func TestMiddleware_AddsTraceIDToResponse(t *testing.T) {
	exporter := installRecorder(t)

	rr := serve(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})), http.MethodGet, "/health")

	traceID := rr.Header().Get("X-Trace-Id")
	require.Len(t, traceID, 32)
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, spans[0].SpanContext.TraceID().String(), traceID)
}

func TestMiddleware_NoTraceIDWithoutProvider(t *testing.T) {
	rr := serve(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})), http.MethodGet, "/health")

	assert.Empty(t, rr.Header().Get("X-Trace-Id"))
}

func TestMiddleware_PropagatesTraceContext(t *testing.T) {
	exporter := installRecorder(t)

	var inner string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, span := GetTracer().Start(r.Context(), "child")
		inner = span.SpanContext().TraceID().String()
		span.End()
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/pdf/all", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	for _, s := range spans {
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", s.SpanContext.TraceID().String())
	}
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", inner)
}

func TestMiddleware_ErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantError bool
	}{
		{"server error", http.StatusInternalServerError, true},
		{"unavailable", http.StatusServiceUnavailable, true},
		{"not found", http.StatusNotFound, false},
		{"bad request", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := installRecorder(t)

			serve(Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})), http.MethodGet, "/api/pdf/all")

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			_, hasError := attrMap(spans[0].Attributes)["error"]
			assert.Equal(t, tt.wantError, hasError)
			if tt.wantError {
				assert.Equal(t, codes.Error, spans[0].Status.Code)
			} else {
				assert.Equal(t, codes.Unset, spans[0].Status.Code)
			}
		})
	}
}
