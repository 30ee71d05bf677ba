package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/ledger"
)

var issueEntryColumns = []string{
	"id", "created_at", "created_by",
	"voucher_number",
	"item_id", "department_id", "employee_id", "office",
	"quantity", "engraved_number",
}

// issueSelect builds the issuance listing query. Unit cost and purchase
// date are resolved from the most recent intake row per item through a
// lateral join, with insertion order breaking date ties.
func (r *LedgerRepo) issueSelect() squirrel.SelectBuilder {
	cols := make([]string, 0, len(issueEntryColumns)+2)
	for _, c := range issueEntryColumns {
		cols = append(cols, "i."+c)
	}
	cols = append(cols,
		"COALESCE(ls.unit_cost, 0) AS unit_cost",
		"ls.date_added AS date_purchased",
	)

	return r.builder.Select(cols...).
		From(issueEntriesTable + " i").
		JoinClause(`LEFT JOIN LATERAL (
			SELECT s.unit_cost, s.date_added
			FROM ` + stockEntriesTable + ` s
			WHERE s.item_id = i.item_id
			ORDER BY s.date_added DESC, s.id DESC
			LIMIT 1
		) ls ON TRUE`)
}

func issueEntryValues(e *ledger.IssueEntry) []any {
	return []any{
		e.ID, e.CreatedAt, e.CreatedBy,
		e.VoucherNumber,
		e.ItemID, e.DepartmentID, e.EmployeeID, e.Office,
		e.Quantity, e.EngravedNumber,
	}
}

// CreateIssueEntry appends one issuance row. Derived cost fields are
// not stored.
func (r *LedgerRepo) CreateIssueEntry(ctx context.Context, entry *ledger.IssueEntry) error {
	q := r.builder.Insert(issueEntriesTable).
		Columns(issueEntryColumns...).
		Values(issueEntryValues(entry)...)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert issue entry: %w", err)
	}
	return nil
}

// GetIssueEntry retrieves one issuance row with derived costs.
func (r *LedgerRepo) GetIssueEntry(ctx context.Context, entryID id.ID) (*ledger.IssueEntry, error) {
	q := r.issueSelect().
		Where(squirrel.Eq{"i.id": entryID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entry ledger.IssueEntry
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("issue entry", entryID.String())
		}
		return nil, fmt.Errorf("get issue entry: %w", err)
	}
	return &entry, nil
}

// ListIssueEntries returns issuance history, newest first.
func (r *LedgerRepo) ListIssueEntries(ctx context.Context, filter ledger.IssueEntryFilter) ([]*ledger.IssueEntry, int64, error) {
	q := applyIssueFilter(r.issueSelect(), filter)
	countQ := applyIssueFilter(r.builder.Select("COUNT(*)").From(issueEntriesTable+" i"), filter)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count issue entries: %w", err)
	}

	q = q.OrderBy("i.created_at DESC", "i.id DESC")
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

	var entries []*ledger.IssueEntry
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("select issue entries: %w", err)
	}
	return entries, total, nil
}

func applyIssueFilter(q squirrel.SelectBuilder, f ledger.IssueEntryFilter) squirrel.SelectBuilder {
	if f.ItemID != nil {
		q = q.Where(squirrel.Eq{"i.item_id": *f.ItemID})
	}
	if f.DepartmentID != nil {
		q = q.Where(squirrel.Eq{"i.department_id": *f.DepartmentID})
	}
	if f.EmployeeID != nil {
		q = q.Where(squirrel.Eq{"i.employee_id": *f.EmployeeID})
	}
	if f.VoucherNumber != nil {
		q = q.Where(squirrel.Eq{"i.voucher_number": *f.VoucherNumber})
	}
	if f.EngravedNumber != nil {
		q = q.Where(squirrel.Eq{"i.engraved_number": *f.EngravedNumber})
	}
	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"i.created_at": *f.FromDate})
	}
	if f.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"i.created_at": *f.ToDate})
	}
	return q
}
