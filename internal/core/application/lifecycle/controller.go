// Package lifecycle is the single entry point the adapters use to drive
// orders through the kitchen: submission, item progress, completion and the
// active-order view.
package lifecycle

import (
	"context"

	"kitchen/internal/core/application/usecases/commands"
	"kitchen/internal/core/application/usecases/queries"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/domain/services"
)

// Service is implemented by Controller and by decorators around it.
type Service interface {
	SubmitOrder(ctx context.Context, lines []services.Line, details commands.OrderDetails) (order.Snapshot, error)
	GetOrder(ctx context.Context, orderID kernel.UUID) (order.Snapshot, error)
	ListActiveOrders(ctx context.Context) (queries.ListActiveOrdersQueryResponse, error)
	UpdateItemStatus(ctx context.Context, orderID, itemID kernel.UUID, status order.ItemStatus) (order.Snapshot, error)
	CompleteOrder(ctx context.Context, orderID kernel.UUID) (order.Snapshot, error)
	ListMenu(ctx context.Context, onlyAvailable bool) ([]menu.Item, error)
}

// Handlers groups the use cases a Controller dispatches to.
type Handlers struct {
	SubmitOrder      commands.SubmitOrderCommandHandler
	UpdateItemStatus commands.UpdateItemStatusCommandHandler
	CompleteOrder    commands.CompleteOrderCommandHandler
	GetOrder         queries.GetOrderQueryHandler
	ListActiveOrders queries.ListActiveOrdersQueryHandler
	ListMenu         queries.ListMenuQueryHandler
}

// Controller turns calls into commands and queries and runs them.
type Controller struct {
	h Handlers
}

var _ Service = (*Controller)(nil)

func NewController(h Handlers) *Controller {
	return &Controller{h: h}
}

// SubmitOrder places a new order under a fresh identifier.
func (c *Controller) SubmitOrder(ctx context.Context, lines []services.Line, details commands.OrderDetails) (order.Snapshot, error) {
	cmd, err := commands.NewSubmitOrderCommand(kernel.NewUUID(), lines, details)
	if err != nil {
		return order.Snapshot{}, err
	}
	return c.h.SubmitOrder.Handle(ctx, cmd)
}

func (c *Controller) GetOrder(ctx context.Context, orderID kernel.UUID) (order.Snapshot, error) {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return order.Snapshot{}, err
	}
	return c.h.GetOrder.Handle(ctx, query)
}

func (c *Controller) ListActiveOrders(ctx context.Context) (queries.ListActiveOrdersQueryResponse, error) {
	return c.h.ListActiveOrders.Handle(ctx, queries.NewListActiveOrdersQuery())
}

func (c *Controller) UpdateItemStatus(
	ctx context.Context,
	orderID, itemID kernel.UUID,
	status order.ItemStatus,
) (order.Snapshot, error) {
	cmd, err := commands.NewUpdateItemStatusCommand(orderID, itemID, status)
	if err != nil {
		return order.Snapshot{}, err
	}
	return c.h.UpdateItemStatus.Handle(ctx, cmd)
}

func (c *Controller) CompleteOrder(ctx context.Context, orderID kernel.UUID) (order.Snapshot, error) {
	cmd, err := commands.NewCompleteOrderCommand(orderID)
	if err != nil {
		return order.Snapshot{}, err
	}
	return c.h.CompleteOrder.Handle(ctx, cmd)
}

func (c *Controller) ListMenu(ctx context.Context, onlyAvailable bool) ([]menu.Item, error) {
	return c.h.ListMenu.Handle(ctx, queries.NewListMenuQuery(onlyAvailable))
}
