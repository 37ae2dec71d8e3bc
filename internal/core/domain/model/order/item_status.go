package order

import (
	"fmt"

	"kitchen/internal/pkg/errs"
)

// ItemStatus is the preparation state of a single order item.
//
//	pending ──> preparing ──> ready ──> served
//	   └───────────┴────────────┴──────────^
//
// Moves are forward-only. Skipping ahead is allowed; staying put or moving
// back is not.
type ItemStatus int

const (
	ItemUnknown ItemStatus = iota
	ItemPending
	ItemPreparing
	ItemReady
	ItemServed
)

var itemStatusNames = map[ItemStatus]string{
	ItemPending:   "pending",
	ItemPreparing: "preparing",
	ItemReady:     "ready",
	ItemServed:    "served",
}

// ParseItemStatus maps the wire name of a status to its value.
func ParseItemStatus(s string) (ItemStatus, error) {
	for status, name := range itemStatusNames {
		if name == s {
			return status, nil
		}
	}
	return ItemUnknown, errs.NewValueIsInvalidErrorWithCause(
		"itemStatus", fmt.Errorf("%q is not one of pending, preparing, ready, served", s),
	)
}

func (s ItemStatus) Validate() error {
	if _, ok := itemStatusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("itemStatus", fmt.Errorf("%d is not a valid item status", s))
	}
	return nil
}

func (s ItemStatus) String() string {
	if name, ok := itemStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ValidateMoveTo checks that next lies strictly after s.
func (s ItemStatus) ValidateMoveTo(next ItemStatus) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	if next <= s {
		return errs.NewInvalidTransitionError("itemStatus", s.String(), next.String())
	}
	return nil
}

// MoveTo returns next when the move is allowed.
func (s ItemStatus) MoveTo(next ItemStatus) (ItemStatus, error) {
	if err := s.ValidateMoveTo(next); err != nil {
		return ItemUnknown, err
	}
	return next, nil
}
