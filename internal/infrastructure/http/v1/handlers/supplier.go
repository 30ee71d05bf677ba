package handlers

import (
	"storekeeper/internal/domain/catalogs/supplier"
	"storekeeper/internal/infrastructure/http/v1/dto"
)

// SupplierHTTPHandler is the generic catalog handler bound to suppliers.
type SupplierHTTPHandler = CatalogHandler[
	*supplier.Supplier,
	dto.CreateSupplierRequest,
	dto.UpdateSupplierRequest,
]

// NewSupplierHandler wires the supplier service into the generic catalog handler.
func NewSupplierHandler(
	base *BaseHandler,
	service *supplier.Service,
) *SupplierHTTPHandler {
	config := CatalogHandlerConfig[
		*supplier.Supplier,
		dto.CreateSupplierRequest,
		dto.UpdateSupplierRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "supplier",

		MapCreateDTO: func(req dto.CreateSupplierRequest) (*supplier.Supplier, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateSupplierRequest, existing *supplier.Supplier) (*supplier.Supplier, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(s *supplier.Supplier) any {
			return dto.FromSupplier(s)
		},
	}

	return NewCatalogHandler(base, config)
}
