package memory_test

import (
	"errors"
	"testing"
	"time"

	"kitchen/internal/adapters/out/events"
	"kitchen/internal/adapters/out/memory"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

func newOrder(t *testing.T, number int64, createdAt time.Time, itemCount int) *order.Order {
	t.Helper()
	items := make([]*order.Item, itemCount)
	for i := range items {
		item, err := order.NewItem(kernel.NewUUID(), int64(i+1), "Dish", 1, "")
		require.NoError(t, err)
		items[i] = item
	}
	n, err := kernel.NewOrderNumber(number)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), n, items, order.Details{}, createdAt)
	require.NoError(t, err)
	return o
}

func setup() (*memory.OrderStore, *memory.UnitOfWorkFactory, *events.Recorder) {
	store := memory.NewOrderStore()
	recorder := &events.Recorder{}
	return store, memory.NewUnitOfWorkFactory(store, events.NewDispatcher(recorder, nil)), recorder
}

func TestUnitOfWork_CommitStoresAndPublishes(t *testing.T) {
	ctx := t.Context()
	store, factory, recorder := setup()
	o := newOrder(t, 1001, base, 2)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))

	_, err := store.Get(ctx, o.ID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound, "staged writes are invisible before commit")
	assert.Empty(t, recorder.Events())

	require.NoError(t, uow.Commit(ctx))
	stored, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, o.Snapshot(), stored.Snapshot())
	assert.Equal(t, int64(1), stored.Version())
	assert.Empty(t, stored.DomainEvents())
	assert.Equal(t, []order.EventType{order.EventOrderCreated}, recorder.Types())

	require.ErrorIs(t, uow.Rollback(ctx), memory.ErrNoTransaction)
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	ctx := t.Context()
	store, factory, recorder := setup()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, newOrder(t, 1001, base, 1)))
	require.NoError(t, uow.Rollback(ctx))

	assert.Zero(t, store.Len())
	assert.Empty(t, recorder.Events())
	require.ErrorIs(t, uow.Commit(ctx), memory.ErrNoTransaction)
}

func TestUnitOfWork_WithoutBeginAppliesImmediately(t *testing.T) {
	ctx := t.Context()
	store, factory, recorder := setup()
	o := newOrder(t, 1001, base, 1)

	require.NoError(t, factory.Create().OrderRepository().Add(ctx, o))
	assert.Equal(t, 1, store.Len())
	assert.Len(t, recorder.Events(), 1)
}

func TestOrderRepository_UpdateBumpsVersionAndRejectsStale(t *testing.T) {
	ctx := t.Context()
	store, factory, recorder := setup()
	o := newOrder(t, 1001, base, 1)
	require.NoError(t, factory.Create().OrderRepository().Add(ctx, o))

	first, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	second, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	itemID := o.Items()[0].ID()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, first.UpdateItemStatus(itemID, order.ItemPreparing, base))
	require.NoError(t, uow.OrderRepository().Update(ctx, first))
	require.NoError(t, uow.Commit(ctx))
	assert.Equal(t, int64(2), first.Version())

	require.NoError(t, second.UpdateItemStatus(itemID, order.ItemServed, base))
	err = factory.Create().OrderRepository().Update(ctx, second)
	require.ErrorIs(t, err, errs.ErrVersionIsInvalid)

	stored, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.ItemPreparing, stored.Items()[0].Status())
	assert.Equal(t, []order.EventType{order.EventOrderCreated, order.EventItemStatusChanged}, recorder.Types())
}

func TestUnitOfWork_CommitRechecksVersions(t *testing.T) {
	ctx := t.Context()
	store, factory, _ := setup()
	o := newOrder(t, 1001, base, 1)
	require.NoError(t, factory.Create().OrderRepository().Add(ctx, o))
	itemID := o.Items()[0].ID()

	slow := factory.Create()
	require.NoError(t, slow.Begin(ctx))
	slowCopy, err := slow.OrderRepository().Get(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, slowCopy.UpdateItemStatus(itemID, order.ItemReady, base))
	require.NoError(t, slow.OrderRepository().Update(ctx, slowCopy))

	fastCopy, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, fastCopy.UpdateItemStatus(itemID, order.ItemPreparing, base))
	require.NoError(t, factory.Create().OrderRepository().Update(ctx, fastCopy))

	require.ErrorIs(t, slow.Commit(ctx), errs.ErrVersionIsInvalid)
	stored, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.ItemPreparing, stored.Items()[0].Status())
}

func TestOrderRepository_GetReturnsIsolatedCopies(t *testing.T) {
	ctx := t.Context()
	store, factory, _ := setup()
	o := newOrder(t, 1001, base, 1)
	require.NoError(t, factory.Create().OrderRepository().Add(ctx, o))

	copyA, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, copyA.UpdateItemStatus(o.Items()[0].ID(), order.ItemServed, base))

	copyB, err := store.Get(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Pending, copyB.Status())
}

func TestOrderRepository_GetUnknown(t *testing.T) {
	_, factory, _ := setup()
	_, err := factory.Create().OrderRepository().Get(t.Context(), kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, err = factory.Create().OrderRepository().Get(t.Context(), kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestOrderRepository_AddRejectsDuplicates(t *testing.T) {
	ctx := t.Context()
	_, factory, _ := setup()
	o := newOrder(t, 1001, base, 1)
	require.NoError(t, factory.Create().OrderRepository().Add(ctx, o))

	err := factory.Create().OrderRepository().Add(ctx, o.Clone())
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	sameNumber := newOrder(t, 1001, base, 1)
	err = factory.Create().OrderRepository().Add(ctx, sameNumber)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Zero(t, sameNumber.Version())
}

func TestOrderRepository_GetAllActiveAndMaxNumber(t *testing.T) {
	ctx := t.Context()
	_, factory, _ := setup()
	repo := factory.Create().OrderRepository()

	newest := newOrder(t, 1003, base.Add(2*time.Minute), 1)
	oldest := newOrder(t, 1001, base, 1)
	done := newOrder(t, 1002, base.Add(time.Minute), 1)
	for _, o := range []*order.Order{newest, oldest, done} {
		require.NoError(t, repo.Add(ctx, o))
	}
	require.NoError(t, done.UpdateItemStatus(done.Items()[0].ID(), order.ItemServed, base))
	require.NoError(t, done.Complete(base))
	require.NoError(t, repo.Update(ctx, done))

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	staged := newOrder(t, 1007, base.Add(-time.Minute), 1)
	require.NoError(t, uow.OrderRepository().Add(ctx, staged))

	active, err := uow.OrderRepository().GetAllActive(ctx)
	require.NoError(t, err)
	ids := make([]kernel.UUID, len(active))
	for i, o := range active {
		ids[i] = o.ID()
	}
	assert.Equal(t, []kernel.UUID{staged.ID(), oldest.ID(), newest.ID()}, ids)

	maxNumber, err := uow.OrderRepository().MaxNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1007), maxNumber)

	require.NoError(t, uow.Rollback(ctx))
	maxNumber, err = repo.MaxNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1003), maxNumber)
}

func TestUnitOfWork_PublishFailureKeepsCommit(t *testing.T) {
	ctx := t.Context()
	store := memory.NewOrderStore()
	recorder := &events.Recorder{Err: errors.New("broker down")}
	factory := memory.NewUnitOfWorkFactory(store, events.NewDispatcher(recorder, nil))

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, newOrder(t, 1001, base, 1)))
	require.NoError(t, uow.Commit(ctx))
	assert.Equal(t, 1, store.Len())
}

func TestUnitOfWork_RepeatedWritesPublishOnce(t *testing.T) {
	ctx := t.Context()
	_, factory, recorder := setup()
	o := newOrder(t, 1001, base, 1)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	repo := uow.OrderRepository()
	require.NoError(t, repo.Add(ctx, o))
	staged, err := repo.Get(ctx, o.ID())
	require.NoError(t, err)
	require.NoError(t, staged.UpdateItemStatus(o.Items()[0].ID(), order.ItemReady, base))
	require.NoError(t, repo.Update(ctx, staged))
	require.NoError(t, uow.Commit(ctx))

	assert.Equal(t, []order.EventType{order.EventOrderCreated, order.EventItemStatusChanged}, recorder.Types())
}
