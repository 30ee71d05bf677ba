package dto

import (
	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/entity"
	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/catalogs/employee"
)

// CreateEmployeeRequest is the request body for creating an employee.
type CreateEmployeeRequest struct {
	Code         string            `json:"code"`
	Name         string            `json:"name" binding:"required"`
	DepartmentID string            `json:"departmentId" binding:"required"`
	Position     *string           `json:"position"`
	Office       *string           `json:"office"`
	Phone        *string           `json:"phone"`
	Email        *string           `json:"email"`
	Attributes   entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateEmployeeRequest) ToEntity() (*employee.Employee, error) {
	departmentID, err := id.Parse(r.DepartmentID)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").WithDetail("field", "departmentId")
	}

	e := employee.NewEmployee(r.Code, r.Name, departmentID)
	e.Position = r.Position
	e.Office = r.Office
	e.Phone = r.Phone
	e.Email = r.Email
	e.Attributes = r.Attributes
	return e, nil
}

// UpdateEmployeeRequest is the request body for updating an employee.
type UpdateEmployeeRequest struct {
	Code         string            `json:"code"`
	Name         string            `json:"name" binding:"required"`
	DepartmentID string            `json:"departmentId" binding:"required"`
	Position     *string           `json:"position"`
	Office       *string           `json:"office"`
	Phone        *string           `json:"phone"`
	Email        *string           `json:"email"`
	Attributes   entity.Attributes `json:"attributes"`
	Version      int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateEmployeeRequest) ApplyTo(e *employee.Employee) error {
	departmentID, err := id.Parse(r.DepartmentID)
	if err != nil {
		return apperror.NewValidation("invalid id format").WithDetail("field", "departmentId")
	}

	e.Code = r.Code
	e.Name = r.Name
	e.DepartmentID = departmentID
	e.Position = r.Position
	e.Office = r.Office
	e.Phone = r.Phone
	e.Email = r.Email
	e.Attributes = r.Attributes
	e.Version = r.Version
	return nil
}

// EmployeeResponse is the response body for an employee.
type EmployeeResponse struct {
	BaseResponse
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	DepartmentID string  `json:"departmentId"`
	Position     *string `json:"position,omitempty"`
	Office       *string `json:"office,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Email        *string `json:"email,omitempty"`
}

// FromEmployee creates response DTO from domain entity.
func FromEmployee(e *employee.Employee) *EmployeeResponse {
	return &EmployeeResponse{
		BaseResponse: FromBaseCatalog(e.BaseCatalog),
		Code:         e.Code,
		Name:         e.Name,
		DepartmentID: e.DepartmentID.String(),
		Position:     e.Position,
		Office:       e.Office,
		Phone:        e.Phone,
		Email:        e.Email,
	}
}
