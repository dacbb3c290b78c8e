package otel

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

var (
	// Disable the OpenTelemetry SDK for all signals
	disabled = false
	// init ; once !
	initOnce sync.Once

	shutdown func(context.Context) error
	shutMu   sync.Mutex
)

// Disabled reports whether OpenTelemetry SDK is disabled for all signals.
func Disabled() bool {
	return disabled
}

type options struct {
	service  string
	version  string
	exporter string
	output   io.Writer
}

// Option configures the SDK.
type Option func(*options)

// ServiceName sets the service.name resource attribute.
func ServiceName(name string) Option {
	return func(conf *options) {
		conf.service = name
	}
}

// ServiceVersion sets the service.version resource attribute.
func ServiceVersion(version string) Option {
	return func(conf *options) {
		conf.version = version
	}
}

// Exporter overrides $OTEL_TRACES_EXPORTER.
func Exporter(name string) Option {
	return func(conf *options) {
		conf.exporter = name
	}
}

// Output of the console exporter; default: stderr.
func Output(w io.Writer) Option {
	return func(conf *options) {
		conf.output = w
	}
}

// Shutdown OpenTelemetry SDK environment
func Shutdown(ctx context.Context) (err error) {
	shutMu.Lock()
	defer shutMu.Unlock()
	if shutdown == nil {
		return nil
	}
	err = shutdown(ctx)
	shutdown = nil
	return // err
}

func configure(ctx context.Context, opts []Option) (err error) {

	disabled, _ = strconv.ParseBool(
		os.Getenv("OTEL_SDK_DISABLED"),
	)

	if disabled {
		return //
	}

	conf := options{
		service:  "linemsg",
		exporter: os.Getenv("OTEL_TRACES_EXPORTER"),
		output:   os.Stderr,
	}
	for _, setup := range opts {
		setup(&conf)
	}

	var exporter sdktrace.SpanExporter
	switch strings.ToLower(strings.TrimSpace(conf.exporter)) {
	case "console", "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(conf.output),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return err
		}
	default: // "none"
		return nil
	}

	attrs := []attribute.KeyValue{
		attribute.String("service.name", conf.service),
	}
	if conf.version != "" {
		attrs = append(attrs, attribute.String("service.version", conf.version))
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
	)
	otel.SetTracerProvider(provider)

	shutMu.Lock()
	shutdown = provider.Shutdown
	shutMu.Unlock()
	return nil
}

// Configure OpenTelemetry SDK components ...
// Only the first call takes effect.
func Configure(ctx context.Context, opts ...Option) (err error) {

	initOnce.Do(func() {
		err = configure(ctx, opts)
	})

	return err
}

// Tracer returns the named tracer of the global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
