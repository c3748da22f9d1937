// Package tracing configures OpenTelemetry for refresh tracing.
package tracing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/JoeRobich/fd-editorminimap/internal/config"
	"github.com/JoeRobich/fd-editorminimap/internal/log"
)

// ServiceName identifies the minimap in exported traces.
const ServiceName = "editor-minimap"

// exporterFactory builds a span exporter. A nil exporter means spans are
// created and sampled but never shipped anywhere.
type exporterFactory func(cfg config.TracingConfig) (sdktrace.SpanExporter, error)

var exporters = map[string]exporterFactory{
	"":     noExporter,
	"none": noExporter,
	"file": func(cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file_path required for file exporter")
		}
		return NewFileExporter(cfg.FilePath)
	},
	"stdout": func(config.TracingConfig) (sdktrace.SpanExporter, error) {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	},
	"otlp": func(cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = config.Defaults().Tracing.OTLPEndpoint
		}
		return otlptracegrpc.New(context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
	},
}

func noExporter(config.TracingConfig) (sdktrace.SpanExporter, error) { return nil, nil }

// Provider owns the tracer handed to the engines. With tracing disabled it
// wraps a no-op tracer and owns nothing.
type Provider struct {
	sdk    *sdktrace.TracerProvider
	tracer trace.Tracer
}

// Option customizes NewProvider.
type Option func(*[]attribute.KeyValue)

// WithVersion records the build version on every exported span.
func WithVersion(v string) Option {
	return func(attrs *[]attribute.KeyValue) {
		*attrs = append(*attrs, attribute.String("service.version", v))
	}
}

// NewProvider builds the provider described by cfg and installs it as the
// global otel provider when tracing is enabled.
func NewProvider(cfg config.TracingConfig, opts ...Option) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{tracer: noop.NewTracerProvider().Tracer(ServiceName)}, nil
	}

	factory, ok := exporters[cfg.Exporter]
	if !ok {
		return nil, fmt.Errorf("unsupported exporter type: %s (want one of %s)",
			cfg.Exporter, strings.Join(exporterNames(), ", "))
	}
	exporter, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("create %s exporter: %w", cfg.Exporter, err)
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", ServiceName)}
	for _, opt := range opts {
		opt(&attrs)
	}

	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 1.0
	}
	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attrs...)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(rate))),
	}
	if exporter != nil {
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}

	sdk := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(sdk)
	log.Info(log.CatTrace, "tracing enabled", "exporter", cfg.Exporter, "sample_rate", rate)

	return &Provider{sdk: sdk, tracer: sdk.Tracer(ServiceName)}, nil
}

func exporterNames() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Tracer returns the tracer engines record refreshes with.
func (p *Provider) Tracer() trace.Tracer { return p.tracer }

// Enabled reports whether spans are sampled and exported.
func (p *Provider) Enabled() bool { return p.sdk != nil }

// Shutdown flushes pending spans. It is a no-op when tracing is disabled.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.sdk == nil {
		return nil
	}
	return p.sdk.Shutdown(ctx)
}
