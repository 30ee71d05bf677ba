package dto

import (
	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/entity"
	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/catalogs/item"
)

// --- Request DTOs ---

// CreateItemRequest is the request body for creating an inventory item.
type CreateItemRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Description *string           `json:"description"`
	CategoryID  *string           `json:"categoryId"`
	Expires     bool              `json:"expires"`
	Depreciates bool              `json:"depreciates"`
	Engraved    bool              `json:"engraved"`
	Attributes  entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateItemRequest) ToEntity() (*item.Item, error) {
	it := item.NewItem(r.Code, r.Name)
	it.Description = r.Description
	it.Expires = r.Expires
	it.Depreciates = r.Depreciates
	it.Engraved = r.Engraved
	it.Attributes = r.Attributes

	categoryID, err := parseOptionalID(r.CategoryID, "categoryId")
	if err != nil {
		return nil, err
	}
	it.CategoryID = categoryID

	return it, nil
}

// UpdateItemRequest is the request body for updating an inventory item.
type UpdateItemRequest struct {
	Code        string            `json:"code"`
	Name        string            `json:"name" binding:"required"`
	Description *string           `json:"description"`
	CategoryID  *string           `json:"categoryId"`
	Expires     bool              `json:"expires"`
	Depreciates bool              `json:"depreciates"`
	Engraved    bool              `json:"engraved"`
	Attributes  entity.Attributes `json:"attributes"`
	Version     int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateItemRequest) ApplyTo(it *item.Item) error {
	categoryID, err := parseOptionalID(r.CategoryID, "categoryId")
	if err != nil {
		return err
	}

	it.Code = r.Code
	it.Name = r.Name
	it.Description = r.Description
	it.CategoryID = categoryID
	it.Expires = r.Expires
	it.Depreciates = r.Depreciates
	it.Engraved = r.Engraved
	it.Attributes = r.Attributes
	it.Version = r.Version
	return nil
}

// --- Response DTOs ---

// ItemResponse is the response body for an inventory item.
type ItemResponse struct {
	BaseResponse
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	Kind        item.Kind `json:"kind"`
	Expires     bool      `json:"expires"`
	Depreciates bool      `json:"depreciates"`
	Engraved    bool      `json:"engraved"`
}

// FromItem creates response DTO from domain entity.
func FromItem(it *item.Item) *ItemResponse {
	resp := &ItemResponse{
		BaseResponse: FromBaseCatalog(it.BaseCatalog),
		Code:         it.Code,
		Name:         it.Name,
		Description:  it.Description,
		Kind:         it.Kind(),
		Expires:      it.Expires,
		Depreciates:  it.Depreciates,
		Engraved:     it.Engraved,
	}
	if it.CategoryID != nil {
		s := it.CategoryID.String()
		resp.CategoryID = &s
	}
	return resp
}

// parseRequiredID parses a required UUID string from a request.
func parseRequiredID(s, field string) (id.ID, error) {
	parsed, err := id.Parse(s)
	if err != nil {
		return id.ID{}, apperror.NewValidation("invalid id format").WithDetail("field", field)
	}
	return parsed, nil
}

// parseOptionalID parses an optional UUID string from a request.
// Empty string is treated the same as absent.
func parseOptionalID(s *string, field string) (*id.ID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := id.Parse(*s)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").WithDetail("field", field)
	}
	return &parsed, nil
}
