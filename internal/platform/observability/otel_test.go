package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"kitchen/internal/platform/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	inst, shutdown, err := observability.Init(t.Context(), observability.Config{
		ServiceName:  "kitchen-test",
		LogLevel:     "debug",
		StdoutTraces: true,
		Output:       &buf,
	})
	require.NoError(t, err)

	inst.Logger.Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, span := inst.Tracer("test").Start(t.Context(), "op")
	span.End()

	counter, err := inst.Meter("test").Int64Counter("kitchen.test.counter")
	require.NoError(t, err)
	counter.Add(t.Context(), 3)

	var rm metricdata.ResourceMetrics
	require.NoError(t, inst.Reader.Collect(t.Context(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	assert.Equal(t, "kitchen.test.counter", rm.ScopeMetrics[0].Metrics[0].Name)

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name":"op"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, observability.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, observability.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, observability.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, observability.ParseLevel(""))
}

func TestInstruments_NilFallsBackToGlobals(t *testing.T) {
	var inst *observability.Instruments
	assert.NotNil(t, inst.Tracer("x"))
	assert.NotNil(t, inst.Meter("x"))
}
