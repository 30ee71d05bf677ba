package department

import (
	"context"

	"storekeeper/internal/domain"
)

// Repository defines data access for departments.
type Repository interface {
	domain.CatalogRepository[*Department]

	// FindByName returns a department with the exact name, or nil.
	FindByName(ctx context.Context, name string) (*Department, error)
}
