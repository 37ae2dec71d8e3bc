package commands

import (
	"context"
	"errors"

	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"
	"kitchen/internal/pkg/guard"
)

var ErrRestoreKitchenStateCommandIsNotConstructed = errors.New(
	"RestoreKitchenStateCommand must be created via NewRestoreKitchenStateCommand constructor",
)

// RestoreKitchenStateCommand rebuilds in-process state from storage at startup.
type RestoreKitchenStateCommand struct {
	guard guard.ConstructorGuard
}

func NewRestoreKitchenStateCommand() RestoreKitchenStateCommand {
	return RestoreKitchenStateCommand{guard: guard.NewConstructorGuard()}
}

func (c RestoreKitchenStateCommand) Validate() error {
	return c.guard.Validate(ErrRestoreKitchenStateCommandIsNotConstructed)
}

// NumberSeeder is moved past every order number already stored.
type NumberSeeder interface {
	AdvanceTo(n int64)
}

// RestoreKitchenStateCommandHandler seeds the order number sequence from the
// highest stored number and refills the dashboard with the stored active orders.
type RestoreKitchenStateCommandHandler struct {
	uowFactory OrderUoWFactory
	numbers    NumberSeeder
	dashboard  ports.KitchenDashboard
}

func NewRestoreKitchenStateCommandHandler(
	uowFactory OrderUoWFactory,
	numbers NumberSeeder,
	dashboard ports.KitchenDashboard,
) RestoreKitchenStateCommandHandler {
	return RestoreKitchenStateCommandHandler{
		uowFactory: uowFactory,
		numbers:    numbers,
		dashboard:  dashboard,
	}
}

// Handle returns the number of active orders put back on the dashboard.
func (h *RestoreKitchenStateCommandHandler) Handle(ctx context.Context, cmd RestoreKitchenStateCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	maxNumber, err := orderRepo.MaxNumber(ctx)
	if err != nil {
		return 0, err
	}

	active, err := orderRepo.GetAllActive(ctx)
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.numbers.AdvanceTo(maxNumber)
	snapshots := make([]order.Snapshot, len(active))
	for i, o := range active {
		snapshots[i] = o.Snapshot()
	}
	h.dashboard.Reset(snapshots)
	return len(snapshots), nil
}
