// Package balance provides the stock balance register service.
package balance

import (
	"context"
	"fmt"
	"time"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/core/types"
	"storekeeper/pkg/logger"
)

// Service provides business operations for the balance register.
// Transactions are managed by the caller (the ledger service).
type Service struct {
	repo Repository
}

// NewService creates a new balance register service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// CheckAndReserve validates availability with pessimistic locking and
// returns the locked balance. Must be called within a transaction.
func (s *Service) CheckAndReserve(ctx context.Context, itemID, departmentID id.ID, required types.Quantity) (Balance, error) {
	if required <= 0 {
		return Balance{}, apperror.NewValidation("required quantity must be positive")
	}

	bal, err := s.repo.GetForUpdate(ctx, itemID, departmentID)
	if err != nil {
		return Balance{}, fmt.Errorf("get balance for %s: %w", itemID, err)
	}

	if bal.Quantity < required {
		return Balance{}, apperror.NewInsufficientStock(itemID.String(), required, bal.Quantity)
	}

	return bal, nil
}

// Increase adds quantity to the balance. Must be called within a
// transaction.
func (s *Service) Increase(ctx context.Context, itemID, departmentID id.ID, qty types.Quantity) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive")
	}

	if err := s.repo.ApplyDelta(ctx, itemID, departmentID, qty); err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}

	logger.Debug(ctx, "balance increased",
		"item_id", itemID,
		"department_id", departmentID,
		"quantity", qty,
	)

	return nil
}

// Decrease subtracts quantity from the balance. Callers must first hold
// the row lock via CheckAndReserve.
func (s *Service) Decrease(ctx context.Context, itemID, departmentID id.ID, qty types.Quantity) error {
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive")
	}

	if err := s.repo.ApplyDelta(ctx, itemID, departmentID, -qty); err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	logger.Debug(ctx, "balance decreased",
		"item_id", itemID,
		"department_id", departmentID,
		"quantity", qty,
	)

	return nil
}

// UpdateDates overwrites the inherited expiry and depreciation dates
// from the most recent receipt.
func (s *Service) UpdateDates(ctx context.Context, itemID, departmentID id.ID, expiry, depreciation *time.Time) error {
	return s.repo.UpdateDates(ctx, itemID, departmentID, expiry, depreciation)
}

// Get returns the current balance, zero when no row exists.
func (s *Service) Get(ctx context.Context, itemID, departmentID id.ID) (Balance, error) {
	return s.repo.Get(ctx, itemID, departmentID)
}

// GetItemAvailability returns the total on-hand quantity for an item
// across all departments.
func (s *Service) GetItemAvailability(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	return s.repo.TotalByItem(ctx, itemID)
}

// ListByItem returns per-department balances for an item.
func (s *Service) ListByItem(ctx context.Context, itemID id.ID) ([]Balance, error) {
	return s.repo.ListByItem(ctx, itemID)
}

// ListByDepartment returns balances held by a department.
func (s *Service) ListByDepartment(ctx context.Context, departmentID id.ID, filter Filter) ([]Balance, error) {
	return s.repo.ListByDepartment(ctx, departmentID, filter)
}

// HasStock reports whether a department holds any stock.
func (s *Service) HasStock(ctx context.Context, departmentID id.ID) (bool, error) {
	balances, err := s.repo.ListByDepartment(ctx, departmentID, Filter{ExcludeZero: true})
	if err != nil {
		return false, err
	}
	return len(balances) > 0, nil
}
