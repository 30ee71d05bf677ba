package employee

import (
	"context"

	"storekeeper/internal/core/id"
	"storekeeper/internal/domain"
)

// Repository defines data access for employees.
type Repository interface {
	domain.CatalogRepository[*Employee]

	// ListByDepartment returns employees assigned to a department.
	ListByDepartment(ctx context.Context, departmentID id.ID) ([]*Employee, error)

	// CountByDepartment returns the number of employees in a department.
	CountByDepartment(ctx context.Context, departmentID id.ID) (int64, error)
}
