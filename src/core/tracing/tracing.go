// Package tracing provides a thin OpenTelemetry setup for the agent
// runtime: Setup installs an OTLP/HTTP exporter and StartSpan opens a
// span under the package tracer. The pipeline, the registry client and
// the proxies do not call StartSpan, so the runtime emits no spans of
// its own. Scaled down from the
// teacher's src/core/registry/tracing package, which correlates a
// Redis-backed event stream across a whole fleet of agents server-side;
// an individual agent process only needs to emit its own spans.
package tracing

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

var tracer trace.Tracer = otel.Tracer("mcp-mesh-agent")

// Provider wraps the SDK's TracerProvider for shutdown management.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Setup configures a global TracerProvider exporting via OTLP/HTTP to
// endpoint, tagging spans with the given service (agent) name. An empty
// endpoint falls back to MCP_MESH_TELEMETRY_ENDPOINT; if that is empty
// too, tracing is left at its no-op default and Setup returns a nil
// Provider.
func Setup(ctx context.Context, serviceName, endpoint string) (*Provider, error) {
	if endpoint == "" {
		endpoint = os.Getenv("MCP_MESH_TELEMETRY_ENDPOINT")
	}
	if endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	tracer = tp.Tracer("mcp-mesh-agent")

	return &Provider{tp: tp}, nil
}

// Shutdown flushes and stops the tracer provider, tolerating a nil
// Provider (no-op tracing was never enabled).
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// StartSpan starts a span named name under the package-level tracer.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}
