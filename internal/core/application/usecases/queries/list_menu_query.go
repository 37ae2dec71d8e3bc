package queries

import (
	"context"
	"errors"

	"kitchen/internal/core/domain/model/menu"
	"kitchen/internal/core/ports"
	"kitchen/internal/pkg/guard"
)

var ErrListMenuQueryIsNotConstructed = errors.New(
	"ListMenuQuery must be created via NewListMenuQuery constructor",
)

// ListMenuQuery returns the dishes orders may reference.
type ListMenuQuery struct {
	onlyAvailable bool

	guard guard.ConstructorGuard
}

func NewListMenuQuery(onlyAvailable bool) ListMenuQuery {
	return ListMenuQuery{onlyAvailable: onlyAvailable, guard: guard.NewConstructorGuard()}
}

func (q ListMenuQuery) Validate() error {
	return q.guard.Validate(ErrListMenuQueryIsNotConstructed)
}

func (q ListMenuQuery) OnlyAvailable() bool { return q.onlyAvailable }

type ListMenuQueryHandler struct {
	catalog ports.MenuCatalog
}

func NewListMenuQueryHandler(catalog ports.MenuCatalog) ListMenuQueryHandler {
	return ListMenuQueryHandler{catalog: catalog}
}

func (h ListMenuQueryHandler) Handle(ctx context.Context, query ListMenuQuery) ([]menu.Item, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	items, err := h.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	if !query.OnlyAvailable() {
		return items, nil
	}

	available := make([]menu.Item, 0, len(items))
	for _, item := range items {
		if item.IsAvailable() {
			available = append(available, item)
		}
	}
	return available, nil
}
