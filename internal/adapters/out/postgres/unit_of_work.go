// Package postgres provides the GORM implementation of the Unit of Work.
// Repositories obtained from a unit of work run inside its transaction once
// Begin has been called, and against the plain connection otherwise.
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Aggregates written through the repository are tracked; their domain
// events are handed to the dispatcher after the transaction commits and
// discarded on rollback.
package postgres

import (
	"context"

	"kitchen/internal/adapters/out/events"
	"kitchen/internal/adapters/out/postgres/orderrepo"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db         *gorm.DB
	dispatcher *events.Dispatcher
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based units of work.
// dispatcher may be nil, in which case events are dropped after commit.
func NewGormUnitOfWorkFactory(db *gorm.DB, dispatcher *events.Dispatcher) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, dispatcher: dispatcher}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:         f.db,
		dispatcher: f.dispatcher,
	}
}

// GormUnitOfWork coordinates a database transaction and the aggregates
// written within it.
type GormUnitOfWork struct {
	db         *gorm.DB
	tx         *gorm.DB
	dispatcher *events.Dispatcher

	tracked []*order.Order
}

// Begin opens a transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and publishes the events of every
// tracked aggregate. It returns gorm.ErrInvalidTransaction when no
// transaction is open.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	tracked := uow.tracked
	uow.tracked = nil
	if err != nil {
		return err
	}

	uow.publish(ctx, tracked)
	return nil
}

// Rollback discards the transaction together with the tracked aggregates.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.tracked = nil
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate registers an aggregate written by a repository. Outside a
// transaction the write is already durable, so events go out at once.
func (uow *GormUnitOfWork) TrackAggregate(aggregate *order.Order) {
	if uow.tx == nil {
		uow.publish(context.Background(), []*order.Order{aggregate})
		return
	}
	for _, tracked := range uow.tracked {
		if tracked == aggregate {
			return
		}
	}
	uow.tracked = append(uow.tracked, aggregate)
}

func (uow *GormUnitOfWork) publish(ctx context.Context, aggregates []*order.Order) {
	sources := make([]events.Source, len(aggregates))
	for i, aggregate := range aggregates {
		sources[i] = aggregate
	}
	uow.dispatcher.Dispatch(ctx, sources...)
}
