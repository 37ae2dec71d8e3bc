package queries

import (
	"errors"

	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/pkg/guard"
)

var ErrListActiveOrdersQueryIsNotConstructed = errors.New(
	"ListActiveOrdersQuery must be created via NewListActiveOrdersQuery constructor",
)

// ListActiveOrdersQuery reads the kitchen dashboard.
type ListActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

func NewListActiveOrdersQuery() ListActiveOrdersQuery {
	return ListActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

func (q ListActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListActiveOrdersQueryIsNotConstructed)
}

// ListActiveOrdersQueryResponse holds the active orders oldest first and how
// many of them are in each active status. Counts are taken from the same
// list, so they always add up to len(Orders).
type ListActiveOrdersQueryResponse struct {
	Orders       []order.Snapshot
	StatusCounts map[order.Status]int
}
