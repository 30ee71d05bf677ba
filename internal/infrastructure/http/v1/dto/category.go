package dto

import (
	"storekeeper/internal/core/entity"
	"storekeeper/internal/domain/catalogs/category"
)

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Description *string           `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	c := category.NewCategory(r.Code, r.Name)
	c.Description = r.Description
	c.Attributes = r.Attributes
	return c
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Description *string           `json:"description"`
	Attributes  entity.Attributes `json:"attributes"`
	Version     int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateCategoryRequest) ApplyTo(c *category.Category) {
	c.Code = r.Code
	c.Name = r.Name
	c.Description = r.Description
	c.Attributes = r.Attributes
	c.Version = r.Version
}

// CategoryResponse is the response body for a category.
type CategoryResponse struct {
	BaseResponse
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// FromCategory creates response DTO from domain entity.
func FromCategory(c *category.Category) *CategoryResponse {
	return &CategoryResponse{
		BaseResponse: FromBaseCatalog(c.BaseCatalog),
		Code:         c.Code,
		Name:         c.Name,
		Description:  c.Description,
	}
}
