// Package observability provides OpenTelemetry tracing and metrics
// integration for ssekit services.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("ssekitd"))
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "sse.broadcast")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("ssekitd"))
//	defer mp.Shutdown(ctx)
package observability
