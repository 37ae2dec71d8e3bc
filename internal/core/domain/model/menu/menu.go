// Package menu describes the dishes an order may reference.
package menu

import (
	"errors"
	"fmt"
	"strings"

	"kitchen/internal/pkg/errs"
)

// ErrItemIsUnavailable is returned when an order references a dish that is
// on the menu but switched off.
var ErrItemIsUnavailable = errors.New("menu item is unavailable")

// Item is a single dish on the menu. Prices are held in minor currency units.
type Item struct {
	id         int64
	name       string
	category   string
	priceCents int64
	available  bool
}

func NewItem(id int64, name, category string, priceCents int64, available bool) (Item, error) {
	var errList []error
	if id <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("menuItemId", fmt.Errorf("%d is not greater than 0", id)))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if priceCents < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%d is negative", priceCents)))
	}
	if err := errors.Join(errList...); err != nil {
		return Item{}, err
	}

	return Item{
		id:         id,
		name:       name,
		category:   strings.TrimSpace(category),
		priceCents: priceCents,
		available:  available,
	}, nil
}

func (i Item) ID() int64 { return i.id }

func (i Item) Name() string { return i.name }

func (i Item) Category() string { return i.category }

func (i Item) PriceCents() int64 { return i.priceCents }

func (i Item) IsAvailable() bool { return i.available }

// CheckOrderable returns an error unless the dish can be put on an order.
func (i Item) CheckOrderable() error {
	if !i.available {
		return errs.NewValueIsInvalidErrorWithCause("menuItemId", fmt.Errorf("%w: %d %s", ErrItemIsUnavailable, i.id, i.name))
	}
	return nil
}
