package handlers

import (
	"storekeeper/internal/domain/catalogs/item"
	"storekeeper/internal/infrastructure/http/v1/dto"
)

// ItemHTTPHandler is the generic catalog handler bound to inventory items.
type ItemHTTPHandler = CatalogHandler[
	*item.Item,
	dto.CreateItemRequest,
	dto.UpdateItemRequest,
]

// NewItemHandler wires the item service into the generic catalog handler.
func NewItemHandler(
	base *BaseHandler,
	service *item.Service,
) *ItemHTTPHandler {
	config := CatalogHandlerConfig[
		*item.Item,
		dto.CreateItemRequest,
		dto.UpdateItemRequest,
	]{
		Service:    service.CatalogService,
		EntityName: "item",

		MapCreateDTO: func(req dto.CreateItemRequest) (*item.Item, error) {
			return req.ToEntity()
		},

		MapUpdateDTO: func(req dto.UpdateItemRequest, existing *item.Item) (*item.Item, error) {
			if err := req.ApplyTo(existing); err != nil {
				return nil, err
			}
			return existing, nil
		},

		MapToDTO: func(it *item.Item) any {
			return dto.FromItem(it)
		},
	}

	return NewCatalogHandler(base, config)
}
