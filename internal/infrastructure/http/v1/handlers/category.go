package handlers

import (
	"storekeeper/internal/domain/catalogs/category"
	"storekeeper/internal/infrastructure/http/v1/dto"
)

// CategoryHTTPHandler is the generic catalog handler bound to categories.
type CategoryHTTPHandler = CatalogHandler[
	*category.Category,
	dto.CreateCategoryRequest,
	dto.UpdateCategoryRequest,
]

// NewCategoryHandler wires the category service into the generic catalog handler.
func NewCategoryHandler(
	base *BaseHandler,
	service *category.Service,
) *CategoryHTTPHandler {
	config := CatalogHandlerConfig[
		*category.Category,
		dto.CreateCategoryRequest,
		dto.UpdateCategoryRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "category",

		MapCreateDTO: func(req dto.CreateCategoryRequest) (*category.Category, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateCategoryRequest, existing *category.Category) (*category.Category, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(cat *category.Category) any {
			return dto.FromCategory(cat)
		},
	}

	return NewCatalogHandler(base, config)
}
