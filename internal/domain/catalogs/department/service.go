package department

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

// UsageChecker reports whether a department is referenced by employees
// or stock records. Wired from the org and ledger layers.
type UsageChecker func(ctx context.Context, departmentID id.ID) (bool, error)

// Service provides business logic for the Department catalog.
type Service struct {
	*domain.CatalogService[*Department]
	repo      Repository
	numerator numerator.Generator
	usage     []UsageChecker
}

// NewService creates a new Department service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Department]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "department",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.prepareForUpdate)
	base.Hooks().OnBeforeDelete(svc.checkNotInUse)

	return svc
}

// AddUsageChecker registers a referential guard consulted before delete.
func (s *Service) AddUsageChecker(check UsageChecker) {
	s.usage = append(s.usage, check)
}

func (s *Service) prepareForCreate(ctx context.Context, d *Department) error {
	if d.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("DEP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		d.Code = code
	}

	if exists, _ := s.checkNameExists(ctx, d.Name, d.ID); exists {
		return apperror.NewDuplicate("department", "name", d.Name)
	}

	return nil
}

func (s *Service) prepareForUpdate(ctx context.Context, d *Department) error {
	if exists, _ := s.checkNameExists(ctx, d.Name, d.ID); exists {
		return apperror.NewDuplicate("department", "name", d.Name)
	}
	return nil
}

// checkNotInUse blocks deletion while employees or stock reference the
// department.
func (s *Service) checkNotInUse(ctx context.Context, d *Department) error {
	for _, check := range s.usage {
		inUse, err := check(ctx, d.ID)
		if err != nil {
			return err
		}
		if inUse {
			return apperror.NewConflict("cannot delete department: referenced by employees or stock records").
				WithDetail("department_id", d.ID.String())
		}
	}
	return nil
}

// FindByName retrieves a department by exact name.
func (s *Service) FindByName(ctx context.Context, name string) (*Department, error) {
	return s.repo.FindByName(ctx, name)
}

func (s *Service) checkNameExists(ctx context.Context, name string, excludeID id.ID) (bool, error) {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil || existing == nil {
		return false, nil
	}
	return existing.ID != excludeID, nil
}
