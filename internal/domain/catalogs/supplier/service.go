package supplier

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

// Service provides business logic for the Supplier catalog.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Supplier service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "supplier",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)

	return svc
}

func (s *Service) prepareForCreate(ctx context.Context, sup *Supplier) error {
	if sup.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("SUP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		sup.Code = code
	}

	if exists, _ := s.checkNameExists(ctx, sup.Name, sup.ID); exists {
		return apperror.NewDuplicate("supplier", "name", sup.Name)
	}

	return nil
}

func (s *Service) prepareForUpdate(ctx context.Context, sup *Supplier) error {
	if exists, _ := s.checkNameExists(ctx, sup.Name, sup.ID); exists {
		return apperror.NewDuplicate("supplier", "name", sup.Name)
	}
	return nil
}

// FindByName retrieves a supplier by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Supplier, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *Service) checkNameExists(ctx context.Context, name string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil || existing == nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
