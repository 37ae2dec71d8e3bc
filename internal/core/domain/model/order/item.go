package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/pkg/errs"
)

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem or RestoreItem")

// Item is one line of an order. Its status only moves through Order.UpdateItemStatus.
type Item struct {
	id                  kernel.UUID
	menuItemID          int64
	name                string
	quantity            int
	status              ItemStatus
	specialInstructions string

	// startedAt is stamped the first time the item leaves pending,
	// finishedAt when it reaches served.
	startedAt  *time.Time
	finishedAt *time.Time

	isConstructed bool
}

// NewItem creates a pending item. name is the menu item name captured at
// submission so later menu edits do not rewrite history.
func NewItem(id kernel.UUID, menuItemID int64, name string, quantity int, specialInstructions string) (*Item, error) {
	item := &Item{
		status:              ItemPending,
		specialInstructions: strings.TrimSpace(specialInstructions),
		isConstructed:       true,
	}

	if err := errors.Join(
		item.setID(id),
		item.setMenuItem(menuItemID, name),
		item.setQuantity(quantity),
	); err != nil {
		return nil, err
	}

	return item, nil
}

// RestoreItem rebuilds an item from storage.
func RestoreItem(
	id kernel.UUID,
	menuItemID int64,
	name string,
	quantity int,
	status ItemStatus,
	specialInstructions string,
	startedAt, finishedAt *time.Time,
) (*Item, error) {
	item, err := NewItem(id, menuItemID, name, quantity, specialInstructions)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	item.status = status
	item.startedAt = copyTime(startedAt)
	item.finishedAt = copyTime(finishedAt)
	return item, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID { return i.id }

func (i *Item) MenuItemID() int64 { return i.menuItemID }

func (i *Item) Name() string { return i.name }

func (i *Item) Quantity() int { return i.quantity }

func (i *Item) Status() ItemStatus { return i.status }

func (i *Item) SpecialInstructions() string { return i.specialInstructions }

func (i *Item) StartedAt() *time.Time { return copyTime(i.startedAt) }

func (i *Item) FinishedAt() *time.Time { return copyTime(i.finishedAt) }

func (i *Item) moveTo(next ItemStatus, now time.Time) error {
	status, err := i.status.MoveTo(next)
	if err != nil {
		return err
	}

	i.status = status
	if i.startedAt == nil {
		i.startedAt = &now
	}
	if status == ItemServed {
		i.finishedAt = &now
	}
	return nil
}

func (i *Item) clone() *Item {
	c := *i
	c.startedAt = copyTime(i.startedAt)
	c.finishedAt = copyTime(i.finishedAt)
	return &c
}

func (i *Item) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Item) setMenuItem(menuItemID int64, name string) error {
	if menuItemID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("menuItemId", fmt.Errorf("%d is not greater than 0", menuItemID))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("menuItemName")
	}
	i.menuItemID = menuItemID
	i.name = name
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
