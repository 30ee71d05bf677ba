package supplier

import (
	"context"

	"storekeeper/internal/domain"
)

// Repository defines data access for suppliers.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// FindByName returns a supplier with the exact name, or nil.
	FindByName(ctx context.Context, name string) (*Supplier, error)
}
