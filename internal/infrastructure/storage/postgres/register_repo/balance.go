// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storekeeper/internal/core/id"
	"storekeeper/internal/core/types"
	"storekeeper/internal/domain/registers/balance"
	"storekeeper/internal/infrastructure/storage/postgres"
)

const balancesTable = "reg_balances"

// BalanceRepo implements balance.Repository.
type BalanceRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewBalanceRepo creates a new balance register repository.
func NewBalanceRepo(txManager *postgres.TxManager) *BalanceRepo {
	return &BalanceRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Get returns the current balance, zero when no row exists.
func (r *BalanceRepo) Get(ctx context.Context, itemID, departmentID id.ID) (balance.Balance, error) {
	var bal balance.Balance

	q := r.builder.Select(
		"item_id", "department_id", "quantity", "expiry_date", "depreciation_date", "updated_at",
	).From(balancesTable).
		Where(squirrel.Eq{
			"item_id":       itemID,
			"department_id": departmentID,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return bal, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &bal, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return balance.Balance{
				ItemID:       itemID,
				DepartmentID: departmentID,
				Quantity:     0,
			}, nil
		}
		return bal, fmt.Errorf("get balance: %w", err)
	}

	return bal, nil
}

// GetForUpdate returns the balance with a pessimistic lock.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, itemID, departmentID id.ID) (balance.Balance, error) {
	var bal balance.Balance

	sql := `
		SELECT item_id, department_id, quantity, expiry_date, depreciation_date, updated_at
		FROM reg_balances
		WHERE item_id = $1 AND department_id = $2
		FOR UPDATE
	`

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &bal, sql, itemID, departmentID); err != nil {
		if pgxscan.NotFound(err) {
			return balance.Balance{
				ItemID:       itemID,
				DepartmentID: departmentID,
				Quantity:     0,
			}, nil
		}
		return bal, fmt.Errorf("get balance for update: %w", err)
	}

	return bal, nil
}

// ApplyDelta upserts the balance row and adjusts quantity by delta.
// The quantity CHECK constraint rejects negative results.
func (r *BalanceRepo) ApplyDelta(ctx context.Context, itemID, departmentID id.ID, delta types.Quantity) error {
	sql := `
		INSERT INTO reg_balances (item_id, department_id, quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (item_id, department_id)
		DO UPDATE SET
			quantity = reg_balances.quantity + EXCLUDED.quantity,
			updated_at = NOW()
	`

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, itemID, departmentID, delta); err != nil {
		return fmt.Errorf("apply balance delta: %w", err)
	}

	return nil
}

// UpdateDates overwrites the inherited expiry and depreciation dates.
func (r *BalanceRepo) UpdateDates(ctx context.Context, itemID, departmentID id.ID, expiry, depreciation *time.Time) error {
	sql := `
		UPDATE reg_balances
		SET expiry_date = $3, depreciation_date = $4, updated_at = NOW()
		WHERE item_id = $1 AND department_id = $2
	`

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, itemID, departmentID, expiry, depreciation); err != nil {
		return fmt.Errorf("update balance dates: %w", err)
	}

	return nil
}

// ListByDepartment returns balances for a department.
func (r *BalanceRepo) ListByDepartment(ctx context.Context, departmentID id.ID, filter balance.Filter) ([]balance.Balance, error) {
	q := r.builder.Select(
		"item_id", "department_id", "quantity", "expiry_date", "depreciation_date", "updated_at",
	).From(balancesTable).
		Where(squirrel.Eq{"department_id": departmentID})

	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": int64(0)})
	}

	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"item_id": filter.ItemIDs})
	}

	if filter.MinQuantity != nil {
		q = q.Where(squirrel.GtOrEq{"quantity": *filter.MinQuantity})
	}

	if filter.MaxQuantity != nil {
		q = q.Where(squirrel.LtOrEq{"quantity": *filter.MaxQuantity})
	}

	q = q.OrderBy("item_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []balance.Balance
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// ListByItem returns non-zero balances across departments for an item.
func (r *BalanceRepo) ListByItem(ctx context.Context, itemID id.ID) ([]balance.Balance, error) {
	q := r.builder.Select(
		"item_id", "department_id", "quantity", "expiry_date", "depreciation_date", "updated_at",
	).From(balancesTable).
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.NotEq{"quantity": int64(0)}).
		OrderBy("department_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var balances []balance.Balance
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &balances, sql, args...); err != nil {
		return nil, fmt.Errorf("select balances: %w", err)
	}

	return balances, nil
}

// TotalByItem returns the summed on-hand quantity for an item.
func (r *BalanceRepo) TotalByItem(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	sql := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM reg_balances
		WHERE item_id = $1
	`

	var total int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, itemID).Scan(&total); err != nil {
		return 0, fmt.Errorf("total by item: %w", err)
	}

	return total, nil
}
