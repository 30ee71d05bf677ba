package handlers

import (
	"storekeeper/internal/domain/catalogs/department"
	"storekeeper/internal/infrastructure/http/v1/dto"
)

// DepartmentHTTPHandler is the generic catalog handler bound to departments.
type DepartmentHTTPHandler = CatalogHandler[
	*department.Department,
	dto.CreateDepartmentRequest,
	dto.UpdateDepartmentRequest,
]

// NewDepartmentHandler wires the department service into the generic catalog handler.
func NewDepartmentHandler(
	base *BaseHandler,
	service *department.Service,
) *DepartmentHTTPHandler {
	config := CatalogHandlerConfig[
		*department.Department,
		dto.CreateDepartmentRequest,
		dto.UpdateDepartmentRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "department",

		MapCreateDTO: func(req dto.CreateDepartmentRequest) (*department.Department, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateDepartmentRequest, existing *department.Department) (*department.Department, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(d *department.Department) any {
			return dto.FromDepartment(d)
		},
	}

	return NewCatalogHandler(base, config)
}
