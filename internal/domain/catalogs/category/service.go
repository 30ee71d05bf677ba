package category

import (
	"context"
	"fmt"
	"time"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/core/numerator"
	"storekeeper/internal/core/tx"
	"storekeeper/internal/domain"
)

// ItemDetacher clears category references from items when a category is
// deleted. Wired from the item layer to avoid a package cycle.
type ItemDetacher func(ctx context.Context, categoryID id.ID) error

// Service provides business logic for the Category catalog.
type Service struct {
	*domain.CatalogService[*Category]
	repo      Repository
	numerator numerator.Generator
	detach    ItemDetacher
}

// NewService creates a new Category service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "category",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)
	base.Hooks().OnAfterDelete(svc.detachItems)

	return svc
}

// SetItemDetacher wires category cleanup on the item side.
func (s *Service) SetItemDetacher(detach ItemDetacher) {
	s.detach = detach
}

func (s *Service) prepareForCreate(ctx context.Context, c *Category) error {
	if c.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("CAT"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		c.Code = code
	}

	if exists, _ := s.checkNameExists(ctx, c.Name, c.ID); exists {
		return apperror.NewDuplicate("category", "name", c.Name)
	}

	return nil
}

func (s *Service) prepareForUpdate(ctx context.Context, c *Category) error {
	if exists, _ := s.checkNameExists(ctx, c.Name, c.ID); exists {
		return apperror.NewDuplicate("category", "name", c.Name)
	}
	return nil
}

// detachItems clears the category reference on items after the category
// is soft-deleted, so listings do not dangle.
func (s *Service) detachItems(ctx context.Context, c *Category) error {
	if s.detach == nil {
		return nil
	}
	return s.detach(ctx, c.ID)
}

// FindByName retrieves a category by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Category, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *Service) checkNameExists(ctx context.Context, name string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil || existing == nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
