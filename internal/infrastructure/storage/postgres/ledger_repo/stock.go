// Package ledger_repo provides the PostgreSQL implementation of the
// stock ledger repository.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/ledger"
	"storekeeper/internal/infrastructure/storage/postgres"
)

const (
	stockEntriesTable = "ldg_stock_entries"
	issueEntriesTable = "ldg_issue_entries"
)

var stockEntryColumns = []string{
	"id", "created_at", "created_by",
	"item_id", "department_id",
	"quantity", "unit_cost", "total_cost",
	"supplier_id", "lpo_number", "delivery_number",
	"engraved_number", "issued",
	"expiry_date", "depreciation_date", "date_added",
}

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txManager *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func stockEntryValues(e *ledger.StockEntry) []any {
	return []any{
		e.ID, e.CreatedAt, e.CreatedBy,
		e.ItemID, e.DepartmentID,
		e.Quantity, e.UnitCost, e.TotalCost,
		e.SupplierID, e.LPONumber, e.DeliveryNumber,
		e.EngravedNumber, e.Issued,
		e.ExpiryDate, e.DepreciationDate, e.DateAdded,
	}
}

// CreateStockEntry appends one intake row.
func (r *LedgerRepo) CreateStockEntry(ctx context.Context, entry *ledger.StockEntry) error {
	q := r.builder.Insert(stockEntriesTable).
		Columns(stockEntryColumns...).
		Values(stockEntryValues(entry)...)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert stock entry: %w", err)
	}
	return nil
}

// CreateStockEntries batch inserts intake rows via the COPY protocol.
// Must be called within a transaction.
func (r *LedgerRepo) CreateStockEntries(ctx context.Context, entries []*ledger.StockEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, stockEntryValues(e))
	}

	inserter := postgres.NewBatchInserter(r.txManager)
	if _, err := inserter.CopyFromSlice(ctx, stockEntriesTable, stockEntryColumns, rows); err != nil {
		return fmt.Errorf("copy stock entries: %w", err)
	}
	return nil
}

// GetStockEntry retrieves one intake row.
func (r *LedgerRepo) GetStockEntry(ctx context.Context, entryID id.ID) (*ledger.StockEntry, error) {
	q := r.builder.Select(stockEntryColumns...).
		From(stockEntriesTable).
		Where(squirrel.Eq{"id": entryID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry ledger.StockEntry
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock entry", entryID.String())
		}
		return nil, fmt.Errorf("get stock entry: %w", err)
	}
	return &entry, nil
}

// GetLatestStockEntry returns the most recent intake row for an item.
// Insertion order breaks date ties (IDs are time-ordered).
func (r *LedgerRepo) GetLatestStockEntry(ctx context.Context, itemID id.ID) (*ledger.StockEntry, error) {
	q := r.builder.Select(stockEntryColumns...).
		From(stockEntriesTable).
		Where(squirrel.Eq{"item_id": itemID}).
		OrderBy("date_added DESC", "id DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry ledger.StockEntry
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest stock entry: %w", err)
	}
	return &entry, nil
}

// ListStockEntries returns intake history, newest first.
func (r *LedgerRepo) ListStockEntries(ctx context.Context, filter ledger.StockEntryFilter) ([]*ledger.StockEntry, int64, error) {
	q := r.builder.Select(stockEntryColumns...).
		From(stockEntriesTable)
	q = applyStockFilter(q, filter)

	countQ := applyStockFilter(r.builder.Select("COUNT(*)").From(stockEntriesTable), filter)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stock entries: %w", err)
	}

	q = q.OrderBy("date_added DESC", "id DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build query: %w", err)
	}

	var entries []*ledger.StockEntry
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select stock entries: %w", err)
	}
	return entries, total, nil
}

func applyStockFilter(q squirrel.SelectBuilder, f ledger.StockEntryFilter) squirrel.SelectBuilder {
	if f.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *f.ItemID})
	}
	if f.DepartmentID != nil {
		q = q.Where(squirrel.Eq{"department_id": *f.DepartmentID})
	}
	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}
	if f.LPONumber != nil {
		q = q.Where(squirrel.Eq{"lpo_number": *f.LPONumber})
	}
	if f.DeliveryNumber != nil {
		q = q.Where(squirrel.Eq{"delivery_number": *f.DeliveryNumber})
	}
	if f.EngravedNumber != nil {
		q = q.Where(squirrel.Eq{"engraved_number": *f.EngravedNumber})
	}
	if f.EngravedOnly {
		q = q.Where(squirrel.NotEq{"engraved_number": nil})
	}
	if f.Unissued {
		q = q.Where(squirrel.Eq{"issued": false})
	}
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"date_added": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"date_added": *f.ToDate})
	}
	return q
}

// FindUnissuedEngraved returns the un-issued row with the engraved
// number, locked for update.
func (r *LedgerRepo) FindUnissuedEngraved(ctx context.Context, itemID id.ID, engravedNumber string) (*ledger.StockEntry, error) {
	q := r.builder.Select(stockEntryColumns...).
		From(stockEntriesTable).
		Where(squirrel.Eq{
			"item_id":         itemID,
			"engraved_number": engravedNumber,
			"issued":          false,
		}).
		OrderBy("date_added ASC", "id ASC").
		Limit(1).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry ledger.StockEntry
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("engraved stock entry", engravedNumber)
		}
		return nil, fmt.Errorf("find unissued engraved: %w", err)
	}
	return &entry, nil
}

// MarkIssued flips the issued flag on an engraved intake row.
func (r *LedgerRepo) MarkIssued(ctx context.Context, entryID id.ID) error {
	q := r.builder.Update(stockEntriesTable).
		Set("issued", true).
		Where(squirrel.Eq{"id": entryID, "issued": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark issued: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("stock entry", entryID.String())
	}
	return nil
}

// CountUnissuedEngraved counts serialized units still on hand.
func (r *LedgerRepo) CountUnissuedEngraved(ctx context.Context, itemID id.ID) (int64, error) {
	q := r.builder.Select("COUNT(*)").
		From(stockEntriesTable).
		Where(squirrel.Eq{"item_id": itemID, "issued": false}).
		Where(squirrel.NotEq{"engraved_number": nil})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unissued engraved: %w", err)
	}
	return count, nil
}

// EngravedNumberInStock reports whether an un-issued row with the
// number exists for the item.
func (r *LedgerRepo) EngravedNumberInStock(ctx context.Context, itemID id.ID, engravedNumber string) (bool, error) {
	q := r.builder.Select("1").
		From(stockEntriesTable).
		Where(squirrel.Eq{
			"item_id":         itemID,
			"engraved_number": engravedNumber,
			"issued":          false,
		}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("engraved number in stock: %w", err)
	}
	return true, nil
}

// HasStockForDepartment reports whether ledger rows reference the
// department.
func (r *LedgerRepo) HasStockForDepartment(ctx context.Context, departmentID id.ID) (bool, error) {
	sql := `
		SELECT EXISTS (
			SELECT 1 FROM ldg_stock_entries WHERE department_id = $1
			UNION ALL
			SELECT 1 FROM ldg_issue_entries WHERE department_id = $1
		)
	`

	var exists bool
	if err := r.txManager.GetQuerier(ctx).QueryRow(ctx, sql, departmentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("has stock for department: %w", err)
	}
	return exists, nil
}
