package item

import (
	"context"

	"storekeeper/internal/core/id"
	"storekeeper/internal/domain"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	domain.CatalogRepository[*Item]

	// FindByName retrieves an item by exact name.
	FindByName(ctx context.Context, name string) (*Item, error)

	// GetForUpdate retrieves an item with row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*Item, error)

	// ClearCategory detaches all items from a category.
	// Used when the category is deleted.
	ClearCategory(ctx context.Context, categoryID id.ID) error
}
