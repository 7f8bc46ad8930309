// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dispatch

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ObservabilityRecorder provides lifecycle hooks around resolution and
// reverse lookup. Implementations typically record metrics and trace spans.
//
// Lifecycle:
//  1. Resolver calls OnResolveStart(ctx, path) → (enrichedCtx, state).
//     The enriched context is used for the rest of the call (e.g. to carry
//     a trace span). The state token is opaque to the resolver.
//  2. Resolver calls OnResolveEnd(enrichedCtx, state, match, err) after the
//     walk completes, match nil on failure.
//  3. OnReverse is called once per Reverse/ReverseHandler call.
//
// Thread safety: all methods must be safe for concurrent use.
type ObservabilityRecorder interface {
	OnResolveStart(ctx context.Context, path string) (context.Context, any)
	OnResolveEnd(ctx context.Context, state any, m *Match, err error)
	OnReverse(ctx context.Context, name string, err error)
}

// OTelOption configures an OTelRecorder.
type OTelOption func(*otelConfig)

type otelConfig struct {
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) OTelOption {
	return func(c *otelConfig) {
		c.meterProvider = mp
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *otelConfig) {
		c.tracerProvider = tp
	}
}

const instrumentationName = "rivaas.dev/dispatch"

// OTelRecorder is the OpenTelemetry ObservabilityRecorder: a span per
// resolution plus resolve/reverse counters and a resolve duration histogram.
// Exporter and pipeline configuration stay with the caller through the
// injected providers.
type OTelRecorder struct {
	tracer          trace.Tracer
	resolves        metric.Int64Counter
	reverses        metric.Int64Counter
	resolveDuration metric.Float64Histogram
}

// NewOTelRecorder creates a recorder on the given (or global) providers.
// Returns an error if instrument creation fails.
func NewOTelRecorder(opts ...OTelOption) (*OTelRecorder, error) {
	cfg := &otelConfig{
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	meter := cfg.meterProvider.Meter(instrumentationName)

	resolves, err := meter.Int64Counter("dispatch.resolve.total",
		metric.WithDescription("Number of path resolutions"),
	)
	if err != nil {
		return nil, err
	}

	reverses, err := meter.Int64Counter("dispatch.reverse.total",
		metric.WithDescription("Number of reverse lookups"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram("dispatch.resolve.duration",
		metric.WithDescription("Path resolution duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelRecorder{
		tracer:          cfg.tracerProvider.Tracer(instrumentationName),
		resolves:        resolves,
		reverses:        reverses,
		resolveDuration: duration,
	}, nil
}

type resolveState struct {
	span  trace.Span
	start time.Time
}

func (r *OTelRecorder) OnResolveStart(ctx context.Context, path string) (context.Context, any) {
	ctx, span := r.tracer.Start(ctx, "dispatch.resolve",
		trace.WithAttributes(attribute.String("url.path", path)),
	)
	return ctx, &resolveState{span: span, start: time.Now()}
}

func (r *OTelRecorder) OnResolveEnd(ctx context.Context, state any, m *Match, err error) {
	st, ok := state.(*resolveState)
	if !ok {
		return
	}

	outcome := "matched"
	if err != nil {
		outcome = "not_found"
	}
	attrs := []attribute.KeyValue{attribute.String("dispatch.outcome", outcome)}
	if m != nil {
		// Record the route template, not the raw path, to keep metric
		// cardinality bounded.
		attrs = append(attrs, attribute.String("dispatch.route", m.Route))
		st.span.SetAttributes(attribute.String("dispatch.route", m.Route))
	}

	elapsed := float64(time.Since(st.start)) / float64(time.Millisecond)
	r.resolves.Add(ctx, 1, metric.WithAttributes(attrs...))
	r.resolveDuration.Record(ctx, elapsed, metric.WithAttributes(attrs...))

	if err != nil {
		st.span.SetStatus(codes.Error, "no route matched")
	}
	st.span.End()
}

func (r *OTelRecorder) OnReverse(ctx context.Context, name string, err error) {
	outcome := "matched"
	if err != nil {
		outcome = "no_reverse_match"
	}
	r.reverses.Add(ctx, 1, metric.WithAttributes(
		attribute.String("dispatch.name", name),
		attribute.String("dispatch.outcome", outcome),
	))
}
