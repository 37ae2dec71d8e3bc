package ports

import (
	"context"

	"kitchen/internal/core/domain/model/menu"
)

// MenuCatalog is the source of dishes an order may reference.
type MenuCatalog interface {
	// Get returns the dish or errs.ObjectNotFoundError.
	Get(ctx context.Context, id int64) (menu.Item, error)

	// List returns every dish ordered by id.
	List(ctx context.Context) ([]menu.Item, error)
}
