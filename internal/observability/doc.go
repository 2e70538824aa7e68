// Package observability groups the logging, metrics and tracing infrastructure
// shared by the API server, the worker and the command line tools.
//
// Subpackages:
//   - logging: slog loggers configured from LOG_LEVEL and LOG_FORMAT
//   - metrics: database query timings, connection pool statistics and build info
//   - tracing: OpenTelemetry tracer provider and HTTP middleware
//
// Example usage:
//
//	import (
//	    "smartvision/internal/observability/logging"
//	    "smartvision/internal/observability/tracing"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    shutdown, _ := tracing.InitProvider(tracing.LoadConfig("smartvision-api", "dev"))
//	    defer func() { _ = shutdown(context.Background()) }()
//	    logger.Info("application started")
//	}
package observability
