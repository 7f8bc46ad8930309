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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestOTelRecorder(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	rec, err := NewOTelRecorder(WithMeterProvider(mp), WithTracerProvider(tp))
	require.NoError(t, err)

	r := New(NewConfig(
		Path("articles/<int:year>/", "archive").Name("archive"),
	), WithObservability(rec))

	_, err = r.Resolve(context.Background(), "/articles/2023/")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "/missing/")
	require.Error(t, err)

	_, err = r.Reverse(context.Background(), "archive", Args(2023))
	require.NoError(t, err)
	_, err = r.Reverse(context.Background(), "unknown")
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(2), counterSum(t, rm, "dispatch.resolve.total"))
	assert.Equal(t, int64(2), counterSum(t, rm, "dispatch.reverse.total"))
	assert.True(t, metricPresent(rm, "dispatch.resolve.duration"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "dispatch.resolve", spans[0].Name())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestOTelRecorder_DefaultProviders(t *testing.T) {
	t.Parallel()

	// The global (noop by default) providers must be usable as-is.
	rec, err := NewOTelRecorder()
	require.NoError(t, err)

	r := New(NewConfig(
		Path("a/", "a"),
	), WithObservability(rec))

	_, err = r.Resolve(context.Background(), "/a/")
	assert.NoError(t, err)
}

func counterSum(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()

	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func metricPresent(rm metricdata.ResourceMetrics, name string) bool {
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name == name {
				return true
			}
		}
	}
	return false
}
