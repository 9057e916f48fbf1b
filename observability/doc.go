// Package observability binds metrics, error monitoring and tracing to a
// gin engine.
//
// Metrics:
//
//	m, err := observability.BindMetrics(engine, observability.NewRegistry(), "my-service")
//	// GET /metrics now serves app_info{version,appname} and request metrics.
//
// Error monitoring:
//
//	observability.AttachMonitor(engine, observability.NewSentryMonitor(m.Version()), dsn)
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service", "collector:4318"))
//	defer tp.Shutdown(ctx)
//	engine.Use(observability.TracingMiddleware())
package observability
