// Package department provides the StaffDepartment catalog.
// Departments are the locations stock is issued to and tracked against.
package department

import (
	"context"

	"storekeeper/internal/core/entity"
)

// Department represents a staff department holding issued stock.
type Department struct {
	entity.Catalog

	// Description is a free-form note about the department
	Description *string `db:"description" json:"description,omitempty"`
}

// NewDepartment creates a new Department with required fields.
func NewDepartment(code, name string) *Department {
	return &Department{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (d *Department) Validate(ctx context.Context) error {
	return d.Catalog.Validate(ctx)
}
