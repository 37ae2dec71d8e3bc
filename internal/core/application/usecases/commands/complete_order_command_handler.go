package commands

import (
	"context"

	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"
)

// CompleteOrderCommandHandler completes orders and takes them off the
// kitchen dashboard.
type CompleteOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	locker     OrderLocker
	dashboard  ports.KitchenDashboard
}

func NewCompleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	locker OrderLocker,
	dashboard ports.KitchenDashboard,
) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
		locker:     locker,
		dashboard:  dashboard,
	}
}

// Handle fails with errs.PreconditionFailedError naming the unserved items,
// or errs.AlreadyCompletedError on a second call; neither changes anything.
func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) (order.Snapshot, error) {
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

	if err = aggregate.Complete(now()); err != nil {
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
