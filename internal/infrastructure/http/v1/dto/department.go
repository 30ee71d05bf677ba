package dto

import (
	"storekeeper/internal/core/entity"
	"storekeeper/internal/domain/catalogs/department"
)

// CreateDepartmentRequest is the request body for creating a department.
type CreateDepartmentRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Description *string           `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateDepartmentRequest) ToEntity() *department.Department {
	d := department.NewDepartment(r.Code, r.Name)
	d.Description = r.Description
	d.Attributes = r.Attributes
	return d
}

// UpdateDepartmentRequest is the request body for updating a department.
type UpdateDepartmentRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Description *string           `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
	Version     int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateDepartmentRequest) ApplyTo(d *department.Department) {
	d.Code = r.Code
	d.Name = r.Name
	d.Description = r.Description
	d.Attributes = r.Attributes
	d.Version = r.Version
}

// DepartmentResponse is the response body for a department.
type DepartmentResponse struct {
	BaseResponse
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// FromDepartment creates response DTO from domain entity.
func FromDepartment(d *department.Department) *DepartmentResponse {
	return &DepartmentResponse{
		BaseResponse: FromBaseCatalog(d.BaseCatalog),
		Code:         d.Code,
		Name:         d.Name,
		Description:  d.Description,
	}
}
