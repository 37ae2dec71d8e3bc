package commands_test

import (
	"testing"
	"time"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, number int64, itemCount int) *order.Order {
	t.Helper()
	items := make([]*order.Item, itemCount)
	for i := range items {
		item, err := order.NewItem(kernel.NewUUID(), int64(i+1), "Dish", 1, "")
		require.NoError(t, err)
		items[i] = item
	}
	n, err := kernel.NewOrderNumber(number)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), n, items, order.Details{}, time.Now().UTC())
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func serveAll(t *testing.T, o *order.Order) {
	t.Helper()
	for _, item := range o.Items() {
		require.NoError(t, o.UpdateItemStatus(item.ID(), order.ItemServed, time.Now().UTC()))
	}
}

func newTestDish(t *testing.T, id int64, name string, available bool) menu.Item {
	t.Helper()
	dish, err := menu.NewItem(id, name, "mains", 1200, available)
	require.NoError(t, err)
	return dish
}
