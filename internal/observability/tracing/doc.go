// Package tracing provides OpenTelemetry tracing integration: the tracer
// provider set up at startup and the HTTP server middleware.
//
// Spans started anywhere in the application through otel.Tracer share the
// provider installed by InitProvider. Request logs carry the trace id of the
// server span so log lines and traces can be joined.
//
// Example usage:
//
//	import "smartvision/internal/observability/tracing"
//
//	func main() {
//	    shutdown, err := tracing.InitProvider(tracing.LoadConfig("smartvision-api", version))
//	    if err != nil { ... }
//	    defer func() { _ = shutdown(context.Background()) }()
//	}
package tracing
