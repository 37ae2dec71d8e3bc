package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"kitchen/internal/adapters/observability"
	"kitchen/internal/core/application/lifecycle"
	"kitchen/internal/core/application/usecases/commands"
	"kitchen/internal/core/application/usecases/queries"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/domain/services"
	"kitchen/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type MockService struct{ mock.Mock }

func (m *MockService) SubmitOrder(ctx context.Context, lines []services.Line, details commands.OrderDetails) (order.Snapshot, error) {
	args := m.Called(ctx, lines, details)
	return args.Get(0).(order.Snapshot), args.Error(1)
}

func (m *MockService) GetOrder(ctx context.Context, id kernel.UUID) (order.Snapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(order.Snapshot), args.Error(1)
}

func (m *MockService) ListActiveOrders(ctx context.Context) (queries.ListActiveOrdersQueryResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(queries.ListActiveOrdersQueryResponse), args.Error(1)
}

func (m *MockService) UpdateItemStatus(
	ctx context.Context,
	orderID, itemID kernel.UUID,
	status order.ItemStatus,
) (order.Snapshot, error) {
	args := m.Called(ctx, orderID, itemID, status)
	return args.Get(0).(order.Snapshot), args.Error(1)
}

func (m *MockService) CompleteOrder(ctx context.Context, id kernel.UUID) (order.Snapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(order.Snapshot), args.Error(1)
}

func (m *MockService) ListMenu(ctx context.Context, onlyAvailable bool) ([]menu.Item, error) {
	args := m.Called(ctx, onlyAvailable)
	return args.Get(0).([]menu.Item), args.Error(1)
}

type harness struct {
	inner    *MockService
	recorder *tracetest.SpanRecorder
	reader   *sdkmetric.ManualReader
	logs     *bytes.Buffer
}

func newHarness() (*harness, lifecycle.Service) {
	h := &harness{
		inner:    new(MockService),
		recorder: tracetest.NewSpanRecorder(),
		reader:   sdkmetric.NewManualReader(),
		logs:     &bytes.Buffer{},
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.recorder))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(h.reader))
	svc := observability.New(h.inner,
		observability.WithTracer(tp.Tracer("test")),
		observability.WithMeter(mp.Meter("test")),
		observability.WithLogger(slog.New(slog.NewJSONHandler(h.logs, nil))),
	)
	return h, svc
}

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestService_SubmitOrder(t *testing.T) {
	h, svc := newHarness()

	number, err := kernel.NewOrderNumber(1001)
	require.NoError(t, err)
	result := order.Snapshot{ID: kernel.NewUUID(), Number: number, Status: order.Pending, Priority: order.PriorityHigh}
	lines := []services.Line{{MenuItemID: 1, Quantity: 1}}
	h.inner.On("SubmitOrder", mock.Anything, lines, commands.OrderDetails{}).Return(result, nil).Once()

	got, err := svc.SubmitOrder(t.Context(), lines, commands.OrderDetails{})
	require.NoError(t, err)
	assert.Equal(t, result, got)

	spans := h.recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "Lifecycle.SubmitOrder", spans[0].Name())
	assert.Equal(t, int64(1), counterValue(t, h.reader, "kitchen.orders_submitted"))
	assert.Contains(t, h.logs.String(), "ORD-1001")
}

func TestService_ErrorsAreRecorded(t *testing.T) {
	h, svc := newHarness()

	orderID, itemID := kernel.NewUUID(), kernel.NewUUID()
	h.inner.On("UpdateItemStatus", mock.Anything, orderID, itemID, order.ItemReady).
		Return(order.Snapshot{}, errs.NewInvalidTransitionError("itemStatus", "served", "ready")).Once()
	h.inner.On("CompleteOrder", mock.Anything, orderID).
		Return(order.Snapshot{}, errs.NewAlreadyCompletedError("order", "ORD-1001")).Once()

	_, err := svc.UpdateItemStatus(t.Context(), orderID, itemID, order.ItemReady)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	_, err = svc.CompleteOrder(t.Context(), orderID)
	require.ErrorIs(t, err, errs.ErrAlreadyCompleted)

	spans := h.recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, codes.Error, span.Status().Code)
	}
	assert.Equal(t, int64(2), counterValue(t, h.reader, "kitchen.failures"))
	assert.Contains(t, h.logs.String(), "failed to update item status")
}

func TestService_DefaultsAreSafe(t *testing.T) {
	inner := new(MockService)
	inner.On("ListMenu", mock.Anything, true).Return([]menu.Item{}, nil).Once()
	inner.On("GetOrder", mock.Anything, mock.Anything).Return(order.Snapshot{}, errors.New("boom")).Once()

	svc := observability.New(inner)
	_, err := svc.ListMenu(t.Context(), true)
	require.NoError(t, err)
	_, err = svc.GetOrder(t.Context(), kernel.NewUUID())
	require.EqualError(t, err, "boom")
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "none", observability.ErrorKind(nil))
	assert.Equal(t, "not_found", observability.ErrorKind(errs.NewObjectNotFoundError("orderId", "x")))
	assert.Equal(t, "precondition_failed", observability.ErrorKind(errs.NewPreconditionFailedError("all items must be served")))
	assert.Equal(t, "validation", observability.ErrorKind(order.ErrEmptyOrder))
	assert.Equal(t, "conflict", observability.ErrorKind(errs.NewVersionIsInvalidError("order")))
	assert.Equal(t, "internal", observability.ErrorKind(errors.New("db down")))
}
