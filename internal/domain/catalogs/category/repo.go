package category

import (
	"context"

	"storekeeper/internal/domain"
)

// Repository defines data access for categories.
type Repository interface {
	domain.CatalogRepository[*Category]

	// FindByName returns a category with the exact name, or nil.
	FindByName(ctx context.Context, name string) (*Category, error)
}
