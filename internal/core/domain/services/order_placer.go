package services

import (
	"errors"
	"fmt"
	"time"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/pkg/errs"
)

// Line is one requested dish of a new order.
type Line struct {
	MenuItemID          int64
	Quantity            int
	SpecialInstructions string
}

// NumberAllocator hands out order numbers.
type NumberAllocator interface {
	Next() kernel.OrderNumber
}

// OrderPlacer turns requested lines into an order, checking every line
// against the menu. The menu name is copied onto the item so the order keeps
// the name it was placed with.
type OrderPlacer struct{}

func NewOrderPlacer() OrderPlacer {
	return OrderPlacer{}
}

// Place builds a pending order. dishes must contain every menu item the
// lines reference; a missing or unavailable dish is a validation error.
// All line errors are reported together. A number is drawn from numbers only
// once every line is valid.
func (p OrderPlacer) Place(
	id kernel.UUID,
	numbers NumberAllocator,
	lines []Line,
	dishes map[int64]menu.Item,
	details order.Details,
	now time.Time,
) (*order.Order, error) {
	if len(lines) == 0 {
		return nil, order.ErrEmptyOrder
	}

	items := make([]*order.Item, 0, len(lines))
	var errList []error
	for i, line := range lines {
		item, err := p.placeLine(line, dishes)
		if err != nil {
			errList = append(errList, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		items = append(items, item)
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return order.NewOrder(id, numbers.Next(), items, details, now)
}

func (p OrderPlacer) placeLine(line Line, dishes map[int64]menu.Item) (*order.Item, error) {
	dish, ok := dishes[line.MenuItemID]
	if !ok {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"menuItemId", errs.NewObjectNotFoundError("menuItemId", line.MenuItemID),
		)
	}
	if err := dish.CheckOrderable(); err != nil {
		return nil, err
	}
	return order.NewItem(kernel.NewUUID(), dish.ID(), dish.Name(), line.Quantity, line.SpecialInstructions)
}
