package lifecycle_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"kitchen/internal/adapters/out/events"
	"kitchen/internal/adapters/out/memory"
	"kitchen/internal/core/application/dashboard"
	"kitchen/internal/core/application/lifecycle"
	"kitchen/internal/core/application/usecases/commands"
	"kitchen/internal/core/application/usecases/queries"
	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/domain/services"
	"kitchen/internal/pkg/errs"
	"kitchen/internal/pkg/keylock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCatalog map[int64]menu.Item

func (c staticCatalog) Get(_ context.Context, id int64) (menu.Item, error) {
	if item, ok := c[id]; ok {
		return item, nil
	}
	return menu.Item{}, errs.NewObjectNotFoundError("menuItemId", id)
}

func (c staticCatalog) List(_ context.Context) ([]menu.Item, error) {
	items := make([]menu.Item, 0, len(c))
	for id := int64(1); id <= int64(len(c)); id++ {
		items = append(items, c[id])
	}
	return items, nil
}

type uowFactory struct{ inner *memory.UnitOfWorkFactory }

func (f uowFactory) Create() commands.OrderUoW { return f.inner.Create() }

type kitchen struct {
	controller *lifecycle.Controller
	view       *dashboard.View
	store      *memory.OrderStore
	factory    uowFactory
	recorder   *events.Recorder
	numbers    *services.OrderNumberSequence
}

func newKitchen(t *testing.T, store *memory.OrderStore) *kitchen {
	t.Helper()
	catalog := staticCatalog{}
	for i, name := range []string{"Margherita", "Tiramisu", "Soup of the day"} {
		item, err := menu.NewItem(int64(i+1), name, "mains", 900, name != "Soup of the day")
		require.NoError(t, err)
		catalog[item.ID()] = item
	}

	recorder := &events.Recorder{}
	factory := uowFactory{inner: memory.NewUnitOfWorkFactory(store, events.NewDispatcher(recorder, nil))}
	view := dashboard.NewView()
	numbers := services.NewOrderNumberSequence(1000)
	locker := keylock.New[kernel.UUID]()

	controller := lifecycle.NewController(lifecycle.Handlers{
		SubmitOrder:      commands.NewSubmitOrderCommandHandler(factory, catalog, numbers, view),
		UpdateItemStatus: commands.NewUpdateItemStatusCommandHandler(factory, locker, view),
		CompleteOrder:    commands.NewCompleteOrderCommandHandler(factory, locker, view),
		GetOrder:         queries.NewGetOrderQueryHandler(store),
		ListActiveOrders: queries.NewListActiveOrdersQueryHandler(view),
		ListMenu:         queries.NewListMenuQueryHandler(catalog),
	})
	return &kitchen{
		controller: controller,
		view:       view,
		store:      store,
		factory:    factory,
		recorder:   recorder,
		numbers:    numbers,
	}
}

func TestController_FullLifecycle(t *testing.T) {
	ctx := t.Context()
	k := newKitchen(t, memory.NewOrderStore())
	c := k.controller

	placed, err := c.SubmitOrder(ctx, []services.Line{
		{MenuItemID: 1, Quantity: 2},
		{MenuItemID: 2, Quantity: 1},
	}, commands.OrderDetails{SpecialInstructions: "Extra spicy please"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1001", placed.Number.String())
	assert.Equal(t, order.Pending, placed.Status)
	assert.True(t, k.view.Contains(placed.ID))

	first, second := placed.Items[0].ID, placed.Items[1].ID

	snap, err := c.UpdateItemStatus(ctx, placed.ID, first, order.ItemPreparing)
	require.NoError(t, err)
	assert.Equal(t, order.Preparing, snap.Status)

	_, err = c.CompleteOrder(ctx, placed.ID)
	var precondition *errs.PreconditionFailedError
	require.ErrorAs(t, err, &precondition)
	assert.ElementsMatch(t, []string{first.String(), second.String()}, precondition.Blocking)

	_, err = c.UpdateItemStatus(ctx, placed.ID, first, order.ItemPending)
	var transition *errs.InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	assert.Equal(t, "preparing", transition.From)
	assert.Equal(t, "pending", transition.To)

	_, err = c.UpdateItemStatus(ctx, placed.ID, first, order.ItemServed)
	require.NoError(t, err)
	snap, err = c.UpdateItemStatus(ctx, placed.ID, second, order.ItemServed)
	require.NoError(t, err)
	assert.Equal(t, order.ReadyToComplete, snap.Status)
	assert.True(t, k.view.Contains(placed.ID))

	done, err := c.CompleteOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Completed, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.False(t, k.view.Contains(placed.ID))

	_, err = c.CompleteOrder(ctx, placed.ID)
	require.ErrorIs(t, err, errs.ErrAlreadyCompleted)
	_, err = c.UpdateItemStatus(ctx, placed.ID, first, order.ItemServed)
	require.ErrorIs(t, err, errs.ErrAlreadyCompleted)

	stored, err := c.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, done, stored)

	assert.Equal(t, []order.EventType{
		order.EventOrderCreated,
		order.EventItemStatusChanged,
		order.EventItemStatusChanged,
		order.EventItemStatusChanged,
		order.EventOrderCompleted,
	}, k.recorder.Types())
}

func TestController_SubmitOrderValidation(t *testing.T) {
	ctx := t.Context()
	k := newKitchen(t, memory.NewOrderStore())

	_, err := k.controller.SubmitOrder(ctx, nil, commands.OrderDetails{})
	require.ErrorIs(t, err, order.ErrEmptyOrder)

	_, err = k.controller.SubmitOrder(ctx, []services.Line{{MenuItemID: 1, Quantity: 0}}, commands.OrderDetails{})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = k.controller.SubmitOrder(ctx, []services.Line{{MenuItemID: 42, Quantity: 1}}, commands.OrderDetails{})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = k.controller.SubmitOrder(ctx, []services.Line{{MenuItemID: 3, Quantity: 1}}, commands.OrderDetails{})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	assert.Zero(t, k.view.Len())
	assert.Zero(t, k.store.Len())
	assert.Equal(t, int64(1000), k.numbers.Last())
}

func TestController_NotFound(t *testing.T) {
	ctx := t.Context()
	k := newKitchen(t, memory.NewOrderStore())

	_, err := k.controller.GetOrder(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	_, err = k.controller.CompleteOrder(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)

	placed, err := k.controller.SubmitOrder(ctx, []services.Line{{MenuItemID: 1, Quantity: 1}}, commands.OrderDetails{})
	require.NoError(t, err)
	_, err = k.controller.UpdateItemStatus(ctx, placed.ID, kernel.NewUUID(), order.ItemReady)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestController_ListActiveOrdersIsFIFO(t *testing.T) {
	ctx := t.Context()
	k := newKitchen(t, memory.NewOrderStore())

	var placed []order.Snapshot
	for range 4 {
		snap, err := k.controller.SubmitOrder(ctx, []services.Line{{MenuItemID: 1, Quantity: 1}}, commands.OrderDetails{})
		require.NoError(t, err)
		placed = append(placed, snap)
	}
	_, err := k.controller.UpdateItemStatus(ctx, placed[2].ID, placed[2].Items[0].ID, order.ItemServed)
	require.NoError(t, err)
	_, err = k.controller.CompleteOrder(ctx, placed[2].ID)
	require.NoError(t, err)
	_, err = k.controller.UpdateItemStatus(ctx, placed[0].ID, placed[0].Items[0].ID, order.ItemReady)
	require.NoError(t, err)

	resp, err := k.controller.ListActiveOrders(ctx)
	require.NoError(t, err)
	require.Len(t, resp.Orders, 3)
	for i := 1; i < len(resp.Orders); i++ {
		assert.True(t, resp.Orders[i-1].Before(resp.Orders[i]))
	}
	ids := []kernel.UUID{resp.Orders[0].ID, resp.Orders[1].ID, resp.Orders[2].ID}
	assert.NotContains(t, ids, placed[2].ID)
	assert.Equal(t, 1, resp.StatusCounts[order.Preparing])
	assert.Equal(t, 2, resp.StatusCounts[order.Pending])
}

func TestController_ConcurrentItemUpdatesOnOneOrder(t *testing.T) {
	ctx := t.Context()
	k := newKitchen(t, memory.NewOrderStore())

	lines := make([]services.Line, 20)
	for i := range lines {
		lines[i] = services.Line{MenuItemID: 1, Quantity: 1}
	}
	placed, err := k.controller.SubmitOrder(ctx, lines, commands.OrderDetails{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errCh := make(chan error, len(placed.Items)*3)
	for _, item := range placed.Items {
		wg.Add(1)
		go func(itemID kernel.UUID) {
			defer wg.Done()
			for _, next := range []order.ItemStatus{order.ItemPreparing, order.ItemReady, order.ItemServed} {
				if _, err := k.controller.UpdateItemStatus(ctx, placed.ID, itemID, next); err != nil {
					errCh <- err
				}
			}
		}(item.ID)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	stored, err := k.controller.GetOrder(ctx, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ReadyToComplete, stored.Status)
	for _, item := range stored.Items {
		assert.Equal(t, order.ItemServed, item.Status)
	}

	active := k.view.List()
	require.Len(t, active, 1)
	assert.Equal(t, stored, active[0])
}

func TestController_ConcurrentSubmissionsGetDistinctNumbers(t *testing.T) {
	ctx := t.Context()
	k := newKitchen(t, memory.NewOrderStore())

	const n = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	numbers := make(map[string]struct{}, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := k.controller.SubmitOrder(ctx, []services.Line{{MenuItemID: 2, Quantity: 1}}, commands.OrderDetails{})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers[snap.Number.String()] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, n)
	assert.Equal(t, n, k.view.Len())
	for i := 1; i <= n; i++ {
		assert.Contains(t, numbers, fmt.Sprintf("ORD-%d", 1000+i))
	}
}

func TestController_RestoreAfterRestart(t *testing.T) {
	ctx := t.Context()
	store := memory.NewOrderStore()
	before := newKitchen(t, store)

	var placed []order.Snapshot
	for range 3 {
		snap, err := before.controller.SubmitOrder(ctx, []services.Line{{MenuItemID: 1, Quantity: 1}}, commands.OrderDetails{})
		require.NoError(t, err)
		placed = append(placed, snap)
	}
	_, err := before.controller.UpdateItemStatus(ctx, placed[1].ID, placed[1].Items[0].ID, order.ItemServed)
	require.NoError(t, err)
	_, err = before.controller.CompleteOrder(ctx, placed[1].ID)
	require.NoError(t, err)

	after := newKitchen(t, store)
	restore := commands.NewRestoreKitchenStateCommandHandler(after.factory, after.numbers, after.view)
	restored, err := restore.Handle(ctx, commands.NewRestoreKitchenStateCommand())
	require.NoError(t, err)
	assert.Equal(t, 2, restored)
	assert.Equal(t, before.view.List(), after.view.List())

	next, err := after.controller.SubmitOrder(ctx, []services.Line{{MenuItemID: 1, Quantity: 1}}, commands.OrderDetails{})
	require.NoError(t, err)
	assert.Equal(t, "ORD-1004", next.Number.String())
}

func TestController_ListMenu(t *testing.T) {
	k := newKitchen(t, memory.NewOrderStore())
	items, err := k.controller.ListMenu(t.Context(), true)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Margherita", items[0].Name())
}
