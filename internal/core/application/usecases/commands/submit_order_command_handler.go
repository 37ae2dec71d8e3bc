package commands

import (
	"context"
	"errors"

	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/domain/services"
	"kitchen/internal/core/ports"
	"kitchen/internal/pkg/errs"
)

// SubmitOrderCommandHandler places orders: it resolves the lines against the
// menu, allocates the order number, stores the order and puts it on the
// kitchen dashboard.
type SubmitOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.MenuCatalog
	numbers    services.NumberAllocator
	placer     services.OrderPlacer
	dashboard  ports.KitchenDashboard
}

func NewSubmitOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.MenuCatalog,
	numbers services.NumberAllocator,
	dashboard ports.KitchenDashboard,
) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		numbers:    numbers,
		placer:     services.NewOrderPlacer(),
		dashboard:  dashboard,
	}
}

// Handle returns the stored order. Nothing reaches the dashboard unless the
// commit succeeds.
func (h *SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (order.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	dishes, err := h.resolveDishes(ctx, cmd.Lines())
	if err != nil {
		return order.Snapshot{}, err
	}

	aggregate, err := h.placer.Place(cmd.OrderID(), h.numbers, cmd.Lines(), dishes, cmd.Details(), now())
	if err != nil {
		return order.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return order.Snapshot{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return order.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return order.Snapshot{}, err
	}

	snapshot := aggregate.Snapshot()
	h.dashboard.Apply(snapshot)
	return snapshot, nil
}

// resolveDishes looks up each distinct menu item once. Unknown dishes are
// left out so the placer reports them alongside any other bad line.
func (h *SubmitOrderCommandHandler) resolveDishes(ctx context.Context, lines []services.Line) (map[int64]menu.Item, error) {
	dishes := make(map[int64]menu.Item, len(lines))
	for _, line := range lines {
		if _, ok := dishes[line.MenuItemID]; ok {
			continue
		}
		dish, err := h.catalog.Get(ctx, line.MenuItemID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		dishes[line.MenuItemID] = dish
	}
	return dishes, nil
}
