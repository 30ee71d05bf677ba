// Package employee provides the Employee catalog.
package employee

import (
	"context"
	"regexp"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/entity"
	"storekeeper/internal/core/id"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Employee represents a staff member assigned to a department.
type Employee struct {
	entity.Catalog

	// DepartmentID links the employee to their department
	DepartmentID id.ID `db:"department_id" json:"departmentId"`

	// Position is the job title
	Position *string `db:"position" json:"position,omitempty"`

	// Office is the employee's office or room, snapshotted onto
	// issuance records
	Office *string `db:"office" json:"office,omitempty"`

	// Contact details
	Phone *string `db:"phone" json:"phone,omitempty"`
	Email *string `db:"email" json:"email,omitempty"`
}

// NewEmployee creates a new Employee with required fields.
func NewEmployee(code, name string, departmentID id.ID) *Employee {
	return &Employee{
		Catalog:      entity.NewCatalog(code, name),
		DepartmentID: departmentID,
	}
}

// Validate implements entity.Validatable interface.
func (e *Employee) Validate(ctx context.Context) error {
	if err := e.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(e.DepartmentID) {
		return apperror.NewValidation("employee department is required").
			WithDetail("field", "department_id")
	}

	if e.Email != nil && *e.Email != "" && !emailRe.MatchString(*e.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email").
			WithDetail("value", *e.Email)
	}

	return nil
}
