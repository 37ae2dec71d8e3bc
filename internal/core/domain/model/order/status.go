package order

import (
	"fmt"

	"kitchen/internal/pkg/errs"
)

// Status is the aggregate state of an order. Everything except Completed is
// derived from the item statuses by DeriveStatus; Completed is only reached
// through Order.Complete.
//
//	Pending ──> Preparing ──> ReadyToComplete ──> Completed
type Status int

const (
	Unknown Status = iota
	Pending
	Preparing
	ReadyToComplete
	Completed
)

var statusNames = map[Status]string{
	Pending:         "pending",
	Preparing:       "preparing",
	ReadyToComplete: "ready_to_complete",
	Completed:       "completed",
}

// ParseStatus maps the wire name of an aggregate status to its value.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// AllStatuses lists the valid statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Preparing, ReadyToComplete, Completed}
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsActive reports whether an order in this status belongs on the kitchen dashboard.
func (s Status) IsActive() bool {
	return s != Completed && s != Unknown
}

// Complete returns Completed from ReadyToComplete.
func (s Status) Complete() (Status, error) {
	switch s {
	case ReadyToComplete:
		return Completed, nil
	case Completed:
		return Unknown, errs.NewAlreadyCompletedError("status", s.String())
	default:
		return Unknown, errs.NewInvalidTransitionError("status", s.String(), Completed.String())
	}
}

// DeriveStatus computes the aggregate status of a non-completed order:
// all pending gives Pending, all served gives ReadyToComplete, and any
// other mix gives Preparing. An empty set is Unknown.
func DeriveStatus(items []ItemStatus) Status {
	if len(items) == 0 {
		return Unknown
	}

	allPending, allServed := true, true
	for _, s := range items {
		if s != ItemPending {
			allPending = false
		}
		if s != ItemServed {
			allServed = false
		}
	}

	switch {
	case allPending:
		return Pending
	case allServed:
		return ReadyToComplete
	default:
		return Preparing
	}
}
