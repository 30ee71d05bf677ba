package item

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

// EngravedUnitCounter reports how many unissued engraved units exist
// for an item. Wired from the ledger layer to keep this package free of
// a ledger dependency.
type EngravedUnitCounter func(ctx context.Context, itemID id.ID) (int64, error)

// Service provides business logic for the Item catalog.
// Uses composition with domain.CatalogService for common CRUD operations.
type Service struct {
	*domain.CatalogService[*Item]
	repo          Repository
	numerator     numerator.Generator
	engravedUnits EngravedUnitCounter
}

// NewService creates a new Item service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Item]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "item",
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

// SetEngravedUnitCounter wires the guard that blocks kind changes while
// unissued engraved units exist.
func (s *Service) SetEngravedUnitCounter(counter EngravedUnitCounter) {
	s.engravedUnits = counter
}

// prepareForCreate handles code generation and name uniqueness.
func (s *Service) prepareForCreate(ctx context.Context, it *Item) error {
	if it.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ITM"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		it.Code = code
	}

	if exists, _ := s.checkNameExists(ctx, it.Name, it.ID); exists {
		return apperror.NewDuplicate("item", "name", it.Name)
	}

	return nil
}

// prepareForUpdate handles uniqueness and the engraved-kind guard.
func (s *Service) prepareForUpdate(ctx context.Context, it *Item) error {
	if exists, _ := s.checkNameExists(ctx, it.Name, it.ID); exists {
		return apperror.NewDuplicate("item", "name", it.Name)
	}

	// Flipping the engraved flag would orphan per-unit ledger rows.
	if s.engravedUnits != nil {
		current, err := s.repo.GetByID(ctx, it.ID)
		if err != nil {
			return err
		}
		if current.Engraved != it.Engraved {
			n, err := s.engravedUnits(ctx, it.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return apperror.NewConflict("cannot change tracking kind: item has unissued engraved units").
					WithDetail("item_id", it.ID.String()).
					WithDetail("unissued_units", n)
			}
		}
	}

	return nil
}

// FindByName retrieves an item by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Item, error) {
	return s.repo.FindByName(ctx, name)
}

// checkNameExists checks if name is already used by a different item.
func (s *Service) checkNameExists(ctx context.Context, name string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil || existing == nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
