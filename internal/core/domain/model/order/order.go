package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"kitchen/internal/core/domain/model/kernel"
	"kitchen/internal/pkg/errs"
)

const maxCustomerNameLength = 100

var (
	// ErrOrderIsNotConstructed is returned by Validate for orders that did
	// not come from NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrEmptyOrder is returned when an order is submitted without items.
	ErrEmptyOrder = errs.NewValueIsRequiredError("items")
)

// Details carries the optional attributes captured when an order is placed.
type Details struct {
	SpecialInstructions string
	CustomerName        string
	// TableNumber is nil for takeout orders.
	TableNumber *int
	// Priority defaults to PriorityNormal when left unset.
	Priority Priority
}

// Order is the aggregate root of the kitchen lifecycle. It owns its items;
// the aggregate status is recomputed from them after every item move and
// becomes Completed only through Complete. A completed order rejects every
// further mutation.
type Order struct {
	id          kernel.UUID
	number      kernel.OrderNumber
	items       []*Item
	status      Status
	details     Details
	createdAt   time.Time
	completedAt *time.Time

	// version is the optimistic-lock counter maintained by repositories.
	version int64
	events  []Event

	isConstructed bool
}

// NewOrder creates a pending order. items keep their given order and must
// have distinct identifiers.
//
//	item, _ := order.NewItem(kernel.NewUUID(), 1, "Margherita", 2, "")
//	number, _ := kernel.NewOrderNumber(1001)
//	o, err := order.NewOrder(kernel.NewUUID(), number, []*order.Item{item}, order.Details{}, time.Now())
func NewOrder(id kernel.UUID, number kernel.OrderNumber, items []*Item, details Details, createdAt time.Time) (*Order, error) {
	o := &Order{
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setNumber(number),
		o.setItems(items),
		o.setDetails(details),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	o.status = o.derivedStatus()
	o.raise(EventOrderCreated, nil, ItemUnknown, createdAt)
	return o, nil
}

// RestoreOrder rebuilds an order from storage and checks that the stored
// status agrees with the stored items.
func RestoreOrder(
	id kernel.UUID,
	number kernel.OrderNumber,
	items []*Item,
	details Details,
	status Status,
	createdAt time.Time,
	completedAt *time.Time,
	version int64,
) (*Order, error) {
	o, err := NewOrder(id, number, items, details, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	if status == Completed {
		if completedAt == nil {
			return nil, errs.NewValueIsRequiredError("completedAt")
		}
		if o.status != ReadyToComplete {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"status", errors.New("completed order has items that are not served"),
			)
		}
	} else {
		if completedAt != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"completedAt", fmt.Errorf("%s order cannot have a completion time", status),
			)
		}
		if status != o.status {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"status", fmt.Errorf("stored %s does not match derived %s", status, o.status),
			)
		}
	}

	o.status = status
	o.completedAt = copyTime(completedAt)
	o.version = version
	o.ClearDomainEvents()
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID { return o.id }

func (o *Order) Number() kernel.OrderNumber { return o.number }

// Items returns the items in submission order.
func (o *Order) Items() []*Item { return slices.Clone(o.items) }

func (o *Order) Status() Status { return o.status }

func (o *Order) SpecialInstructions() string { return o.details.SpecialInstructions }

func (o *Order) CustomerName() string { return o.details.CustomerName }

// TableNumber returns nil for takeout orders.
func (o *Order) TableNumber() *int {
	if o.details.TableNumber == nil {
		return nil
	}
	n := *o.details.TableNumber
	return &n
}

func (o *Order) Priority() Priority { return o.details.Priority }

func (o *Order) CreatedAt() time.Time { return o.createdAt }

func (o *Order) CompletedAt() *time.Time { return copyTime(o.completedAt) }

func (o *Order) Version() int64 { return o.version }

// SetVersion records the version a repository stored the order under.
func (o *Order) SetVersion(version int64) { o.version = version }

// IsActive reports whether the order belongs on the kitchen dashboard.
func (o *Order) IsActive() bool { return o.status.IsActive() }

// Item looks up an item by identifier.
func (o *Order) Item(itemID kernel.UUID) (*Item, error) {
	for _, item := range o.items {
		if item.id.IsEqual(itemID) {
			return item, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("itemId", itemID.String())
}

// UpdateItemStatus moves one item forward and recomputes the aggregate status.
// now is stamped on the item as its start or finish time.
func (o *Order) UpdateItemStatus(itemID kernel.UUID, next ItemStatus, now time.Time) error {
	if o.status == Completed {
		return errs.NewAlreadyCompletedError("order", o.number)
	}

	item, err := o.Item(itemID)
	if err != nil {
		return err
	}
	if err = item.moveTo(next, now); err != nil {
		return err
	}

	o.status = o.derivedStatus()
	id := item.id
	o.raise(EventItemStatusChanged, &id, item.status, now)
	return nil
}

// BlockingItems lists the identifiers of items that are not served yet.
func (o *Order) BlockingItems() []string {
	blocking := make([]string, 0)
	for _, item := range o.items {
		if item.status != ItemServed {
			blocking = append(blocking, item.id.String())
		}
	}
	return blocking
}

// Complete closes an order whose items are all served and stamps now as the
// completion time. A second call fails without touching the first stamp.
func (o *Order) Complete(now time.Time) error {
	if o.status == Completed {
		return errs.NewAlreadyCompletedError("order", o.number)
	}

	if blocking := o.BlockingItems(); len(blocking) > 0 {
		return errs.NewPreconditionFailedError("all items must be served", blocking...)
	}

	status, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = status
	o.completedAt = &now
	o.raise(EventOrderCompleted, nil, ItemUnknown, now)
	return nil
}

// Clone returns a deep copy that shares no mutable state with o.
func (o *Order) Clone() *Order {
	c := *o
	c.items = make([]*Item, len(o.items))
	for i, item := range o.items {
		c.items[i] = item.clone()
	}
	c.details.TableNumber = o.TableNumber()
	c.completedAt = copyTime(o.completedAt)
	c.events = o.DomainEvents()
	return &c
}

func (o *Order) derivedStatus() Status {
	statuses := make([]ItemStatus, len(o.items))
	for i, item := range o.items {
		statuses[i] = item.status
	}
	return DeriveStatus(statuses)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(number kernel.OrderNumber) error {
	if err := number.Validate(); err != nil {
		return err
	}
	o.number = number
	return nil
}

func (o *Order) setItems(items []*Item) error {
	if len(items) == 0 {
		return ErrEmptyOrder
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.id]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("duplicate item id %s", item.id))
		}
		seen[item.id] = struct{}{}
	}

	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setDetails(details Details) error {
	details.SpecialInstructions = strings.TrimSpace(details.SpecialInstructions)
	details.CustomerName = strings.TrimSpace(details.CustomerName)

	if n := utf8.RuneCountInString(details.CustomerName); n > maxCustomerNameLength {
		return errs.NewValueIsOutOfRangeError("customerName length", n, 0, maxCustomerNameLength)
	}
	if details.TableNumber != nil {
		if *details.TableNumber < 1 {
			return errs.NewValueIsInvalidErrorWithCause(
				"tableNumber", fmt.Errorf("%d is not greater than 0", *details.TableNumber),
			)
		}
		n := *details.TableNumber
		details.TableNumber = &n
	}
	if details.Priority == PriorityUnknown {
		details.Priority = PriorityNormal
	}
	if err := details.Priority.Validate(); err != nil {
		return err
	}

	o.details = details
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt
	return nil
}
