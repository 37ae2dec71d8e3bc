package commands

import (
	"context"

	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"
)

// UpdateItemStatusCommandHandler applies item transitions. Work on one order
// is serialised by the order lock, so the aggregate status is always derived
// from a complete set of item statuses.
type UpdateItemStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	locker     OrderLocker
	dashboard  ports.KitchenDashboard
}

func NewUpdateItemStatusCommandHandler(
	uowFactory OrderUoWFactory,
	locker OrderLocker,
	dashboard ports.KitchenDashboard,
) UpdateItemStatusCommandHandler {
	return UpdateItemStatusCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		dashboard:  dashboard,
	}
}

// Handle returns the order as committed. On any error the stored order and
// the dashboard are left as they were.
func (h *UpdateItemStatusCommandHandler) Handle(ctx context.Context, cmd UpdateItemStatusCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	unlock := h.locker.Lock(cmd.OrderID())
	defer unlock()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return order.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return order.Snapshot{}, err
	}

	if err = aggregate.UpdateItemStatus(cmd.ItemID(), cmd.NewStatus(), now()); err != nil {
		return order.Snapshot{}, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return order.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := aggregate.Snapshot()
	h.dashboard.Apply(snapshot)
	return snapshot, nil
}
