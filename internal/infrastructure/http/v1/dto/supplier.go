package dto

import (
	"storekeeper/internal/core/entity"
	"storekeeper/internal/domain/catalogs/supplier"
)

// CreateSupplierRequest is the request body for creating a supplier.
type CreateSupplierRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ContactPerson *string           `json:"contactPerson"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	Address       *string           `json:"address"`
	Comment       *string           `json:"comment"`
	Attributes    entity.Attributes `json:"attributes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.NewSupplier(r.Code, r.Name)
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.Comment = r.Comment
	s.Attributes = r.Attributes
	return s
}

// UpdateSupplierRequest is the request body for updating a supplier.
type UpdateSupplierRequest struct {
	Code          string            `json:"code"`
	Name          string            `json:"name" binding:"required"`
	ContactPerson *string           `json:"contactPerson"`
	Phone         *string           `json:"phone"`
	Email         *string           `json:"email"`
	Address       *string           `json:"address"`
	Comment       *string           `json:"comment"`
	Attributes    entity.Attributes `json:"attributes"`
	Version       int               `json:"version" binding:"required"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	s.Code = r.Code
	s.Name = r.Name
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	s.Comment = r.Comment
	s.Attributes = r.Attributes
	s.Version = r.Version
}

// SupplierResponse is the response body for a supplier.
type SupplierResponse struct {
	BaseResponse
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	Address       *string `json:"address,omitempty"`
	Comment       *string `json:"comment,omitempty"`
}

// FromSupplier creates response DTO from domain entity.
func FromSupplier(s *supplier.Supplier) *SupplierResponse {
	return &SupplierResponse{
		BaseResponse:  FromBaseCatalog(s.BaseCatalog),
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		Comment:       s.Comment,
	}
}
