package memory

import (
	"context"

	"kitchen/internal/adapters/out/events"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"
)

type UnitOfWorkFactory struct {
	store      *OrderStore
	dispatcher *events.Dispatcher
}

// NewUnitOfWorkFactory creates units of work over store. dispatcher may be
// nil, in which case events are dropped.
func NewUnitOfWorkFactory(store *OrderStore, dispatcher *events.Dispatcher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, dispatcher: dispatcher}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store, dispatcher: f.dispatcher}
}

// UnitOfWork stages writes until Commit and applies them to the store in one
// step. Without Begin, repository writes are applied immediately.
type UnitOfWork struct {
	store      *OrderStore
	dispatcher *events.Dispatcher

	active bool
	writes []write
}

func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.active = true
	return nil
}

func (uow *UnitOfWork) Commit(ctx context.Context) error {
	if !uow.active {
		return ErrNoTransaction
	}

	writes := uow.writes
	uow.reset()

	if err := uow.store.apply(writes); err != nil {
		return err
	}
	uow.publish(ctx, writes...)
	return nil
}

func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoTransaction
	}
	uow.reset()
	return nil
}

func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{uow: uow}
}

func (uow *UnitOfWork) reset() {
	uow.active = false
	uow.writes = nil
}

func (uow *UnitOfWork) stage(ctx context.Context, w write) error {
	if !uow.active {
		if err := uow.store.apply([]write{w}); err != nil {
			return err
		}
		uow.publish(ctx, w)
		return nil
	}

	for i := range uow.writes {
		if uow.writes[i].aggregate.ID().IsEqual(w.aggregate.ID()) {
			// keep the version the transaction started from
			uow.writes[i].aggregate = w.aggregate
			return nil
		}
	}
	uow.writes = append(uow.writes, w)
	return nil
}

func (uow *UnitOfWork) staged(id kernel.UUID) (*order.Order, bool) {
	for _, w := range uow.writes {
		if w.aggregate.ID().IsEqual(id) {
			return w.aggregate, true
		}
	}
	return nil, false
}

// publish runs after the writes are stored. A staged aggregate replaced
// within the transaction was read back from the stage, so it carries the
// events of the one it replaced.
func (uow *UnitOfWork) publish(ctx context.Context, writes ...write) {
	sources := make([]events.Source, len(writes))
	for i, w := range writes {
		sources[i] = w.aggregate
	}
	uow.dispatcher.Dispatch(ctx, sources...)
}
