// Package otel configures the OpenTelemetry tracing SDK.
//
// Usage:
//
//	func main() {
//		err := otel.Configure(ctx)
//		if err != nil {
//			// handle
//		}
//		defer otel.Shutdown(ctx)
//	}
//
// Environment:
//
//	OTEL_SDK_DISABLED=true        disables the SDK for all signals
//	OTEL_TRACES_EXPORTER=console  writes spans to stderr; none (default) keeps no-op tracing
package otel
