// Package observability decorates the lifecycle service with tracing,
// logging and metrics.
package observability

import (
	"context"
	"log/slog"

	"kitchen/internal/core/application/lifecycle"
	"kitchen/internal/core/application/usecases/commands"
	"kitchen/internal/core/application/usecases/queries"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/domain/services"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
)

const tracerName = "kitchen/internal/adapters/observability"

// Service decorates lifecycle.Service.
type Service struct {
	inner   lifecycle.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

func New(inner lifecycle.Service, opts ...Option) lifecycle.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) SubmitOrder(ctx context.Context, lines []services.Line, details commands.OrderDetails) (order.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.SubmitOrder", trace.WithAttributes(attribute.Int("order.lines", len(lines))))
	defer span.End()

	result, err := s.inner.SubmitOrder(ctx, lines, details)
	if err != nil {
		return order.Snapshot{}, s.handleError(ctx, span, err, "failed to submit order", slog.Int("order.lines", len(lines)))
	}
	span.SetAttributes(attribute.String("order.id", result.ID.String()), attribute.String("order.number", result.Number.String()))
	s.metrics.recordSubmitted(ctx, result.Priority)
	s.logInfo(ctx, "order submitted",
		slog.String("order.id", result.ID.String()),
		slog.String("order.number", result.Number.String()),
		slog.Int("order.items", len(result.Items)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID kernel.UUID) (order.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.GetOrder", trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, orderID)
	if err != nil {
		return order.Snapshot{}, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", orderID.String()))
	}
	return result, nil
}

func (s *Service) ListActiveOrders(ctx context.Context) (queries.ListActiveOrdersQueryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.ListActiveOrders")
	defer span.End()

	result, err := s.inner.ListActiveOrders(ctx)
	if err != nil {
		return queries.ListActiveOrdersQueryResponse{}, s.handleError(ctx, span, err, "failed to list active orders")
	}
	span.SetAttributes(attribute.Int("orders.active", len(result.Orders)))
	return result, nil
}

func (s *Service) UpdateItemStatus(
	ctx context.Context,
	orderID, itemID kernel.UUID,
	status order.ItemStatus,
) (order.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.UpdateItemStatus", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.String("item.id", itemID.String()),
		attribute.String("item.status", status.String()),
	))
	defer span.End()

	result, err := s.inner.UpdateItemStatus(ctx, orderID, itemID, status)
	if err != nil {
		return order.Snapshot{}, s.handleError(ctx, span, err, "failed to update item status",
			slog.String("order.id", orderID.String()),
			slog.String("item.id", itemID.String()),
			slog.String("item.status", status.String()))
	}
	s.metrics.recordItemMoved(ctx, status)
	s.logInfo(ctx, "item status updated",
		slog.String("order.number", result.Number.String()),
		slog.String("item.id", itemID.String()),
		slog.String("item.status", status.String()),
		slog.String("order.status", result.Status.String()))
	return result, nil
}

func (s *Service) CompleteOrder(ctx context.Context, orderID kernel.UUID) (order.Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.CompleteOrder", trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	result, err := s.inner.CompleteOrder(ctx, orderID)
	if err != nil {
		return order.Snapshot{}, s.handleError(ctx, span, err, "failed to complete order", slog.String("order.id", orderID.String()))
	}
	s.metrics.recordCompleted(ctx)
	s.logInfo(ctx, "order completed", slog.String("order.number", result.Number.String()))
	return result, nil
}

func (s *Service) ListMenu(ctx context.Context, onlyAvailable bool) ([]menu.Item, error) {
	ctx, span := s.tracer.Start(ctx, "Lifecycle.ListMenu", trace.WithAttributes(attribute.Bool("menu.only_available", onlyAvailable)))
	defer span.End()

	result, err := s.inner.ListMenu(ctx, onlyAvailable)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list menu")
	}
	span.SetAttributes(attribute.Int("menu.items", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.metrics.recordFailure(ctx, err)
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersSubmitted metric.Int64Counter
	itemsMoved      metric.Int64Counter
	ordersCompleted metric.Int64Counter
	failures        metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersSubmitted, _ := m.Int64Counter("kitchen.orders_submitted", metric.WithDescription("Number of orders submitted"))
	itemsMoved, _ := m.Int64Counter("kitchen.items_moved", metric.WithDescription("Number of item status transitions"))
	ordersCompleted, _ := m.Int64Counter("kitchen.orders_completed", metric.WithDescription("Number of orders completed"))
	failures, _ := m.Int64Counter("kitchen.failures", metric.WithDescription("Number of rejected or failed lifecycle calls"))
	return serviceMetrics{
		ordersSubmitted: ordersSubmitted,
		itemsMoved:      itemsMoved,
		ordersCompleted: ordersCompleted,
		failures:        failures,
	}
}

func (m serviceMetrics) recordSubmitted(ctx context.Context, priority order.Priority) {
	if m.ordersSubmitted != nil {
		m.ordersSubmitted.Add(ctx, 1, metric.WithAttributes(attribute.String("order.priority", priority.String())))
	}
}

func (m serviceMetrics) recordItemMoved(ctx context.Context, status order.ItemStatus) {
	if m.itemsMoved != nil {
		m.itemsMoved.Add(ctx, 1, metric.WithAttributes(attribute.String("item.status", status.String())))
	}
}

func (m serviceMetrics) recordCompleted(ctx context.Context) {
	if m.ordersCompleted != nil {
		m.ordersCompleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, err error) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("error.kind", ErrorKind(err))))
	}
}

var _ lifecycle.Service = (*Service)(nil)
