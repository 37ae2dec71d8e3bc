package queries

import (
	"context"

	"kitchen/internal/core/domain/model/order"
	"kitchen/internal/core/ports"
)

type ListActiveOrdersQueryHandler struct {
	dashboard ports.KitchenDashboard
}

func NewListActiveOrdersQueryHandler(dashboard ports.KitchenDashboard) ListActiveOrdersQueryHandler {
	return ListActiveOrdersQueryHandler{dashboard: dashboard}
}

func (h ListActiveOrdersQueryHandler) Handle(_ context.Context, query ListActiveOrdersQuery) (ListActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListActiveOrdersQueryResponse{}, err
	}

	orders := h.dashboard.List()
	counts := make(map[order.Status]int, 3)
	for _, status := range order.AllStatuses() {
		if status.IsActive() {
			counts[status] = 0
		}
	}
	for _, o := range orders {
		counts[o.Status]++
	}

	return ListActiveOrdersQueryResponse{Orders: orders, StatusCounts: counts}, nil
}
