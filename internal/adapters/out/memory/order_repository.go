package memory

import (
	"context"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/pkg/errs"
)

// OrderRepository reads through the staged writes of its unit of work to
// the committed store.
type OrderRepository struct {
	uow *UnitOfWork
}

func (r *OrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if _, ok := r.uow.staged(aggregate.ID()); ok {
		return errs.NewValueIsInvalidError("orderId")
	}

	aggregate.SetVersion(1)
	if err := r.uow.stage(ctx, write{aggregate: aggregate}); err != nil {
		aggregate.SetVersion(0)
		return err
	}
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	expected := aggregate.Version()
	if staged, ok := r.uow.staged(aggregate.ID()); ok {
		if staged.Version() != expected {
			return errs.NewVersionIsInvalidError("order")
		}
	} else if current, err := r.uow.store.Get(ctx, aggregate.ID()); err != nil {
		return err
	} else if current.Version() != expected {
		return errs.NewVersionIsInvalidError("order")
	}

	aggregate.SetVersion(expected + 1)
	if err := r.uow.stage(ctx, write{aggregate: aggregate, expected: expected}); err != nil {
		aggregate.SetVersion(expected)
		return err
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if staged, ok := r.uow.staged(id); ok {
		return staged.Clone(), nil
	}
	return r.uow.store.Get(ctx, id)
}

func (r *OrderRepository) GetAllActive(_ context.Context) ([]*order.Order, error) {
	active := r.uow.store.activeOrders()
	seen := make(map[kernel.UUID]int, len(active))
	for i, o := range active {
		seen[o.ID()] = i
	}

	for _, w := range r.uow.writes {
		i, ok := seen[w.aggregate.ID()]
		switch {
		case ok && w.aggregate.IsActive():
			active[i] = w.aggregate.Clone()
		case ok:
			active[i] = nil
		case w.aggregate.IsActive():
			active = append(active, w.aggregate.Clone())
		}
	}

	result := make([]*order.Order, 0, len(active))
	for _, o := range active {
		if o != nil {
			result = append(result, o)
		}
	}
	sortOldestFirst(result)
	return result, nil
}

func (r *OrderRepository) MaxNumber(_ context.Context) (int64, error) {
	maxNumber := r.uow.store.maxNumber()
	for _, w := range r.uow.writes {
		maxNumber = max(maxNumber, w.aggregate.Number().Value())
	}
	return maxNumber, nil
}
