package handlers

import (
	"storekeeper/internal/domain/catalogs/employee"
	"storekeeper/internal/infrastructure/http/v1/dto"
)

// EmployeeHTTPHandler is the generic catalog handler bound to employees.
type EmployeeHTTPHandler = CatalogHandler[
	*employee.Employee,
	dto.CreateEmployeeRequest,
	dto.UpdateEmployeeRequest,
]

// NewEmployeeHandler wires the employee service into the generic catalog handler.
func NewEmployeeHandler(
	base *BaseHandler,
	service *employee.Service,
) *EmployeeHTTPHandler {
	config := CatalogHandlerConfig[
		*employee.Employee,
		dto.CreateEmployeeRequest,
		dto.UpdateEmployeeRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "employee",

		MapCreateDTO: func(req dto.CreateEmployeeRequest) (*employee.Employee, error) {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateEmployeeRequest, existing *employee.Employee) (*employee.Employee, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},

		MapToDTO: func(e *employee.Employee) any {
			return dto.FromEmployee(e)
		},
	}

	return NewCatalogHandler(base, config)
}
