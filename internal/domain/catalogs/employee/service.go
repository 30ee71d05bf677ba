package employee

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

// DepartmentChecker verifies the referenced department exists.
type DepartmentChecker func(ctx context.Context, departmentID id.ID) (bool, error)

// Service provides business logic for the Employee catalog.
type Service struct {
	*domain.CatalogService[*Employee]
	repo       Repository
	numerator  numerator.Generator
	department DepartmentChecker
}

// NewService creates a new Employee service.
func NewService(
	repo Repository,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Employee]{
		Repo:       repo,
		TxManager:  txManager,
		Numerator:  gen,
		EntityName: "employee",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
		numerator:      gen,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkDepartmentExists)

	return svc
}

// SetDepartmentChecker wires department existence validation.
func (s *Service) SetDepartmentChecker(check DepartmentChecker) {
	s.department = check
}

func (s *Service) prepareForCreate(ctx context.Context, e *Employee) error {
	if e.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("EMP"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		e.Code = code
	}

	return s.checkDepartmentExists(ctx, e)
}

func (s *Service) checkDepartmentExists(ctx context.Context, e *Employee) error {
	if s.department == nil {
		return nil
	}
	exists, err := s.department(ctx, e.DepartmentID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("department", e.DepartmentID.String())
	}
	return nil
}

// ListByDepartment returns employees in the given department.
func (s *Service) ListByDepartment(ctx context.Context, departmentID id.ID) ([]*Employee, error) {
	return s.repo.ListByDepartment(ctx, departmentID)
}
