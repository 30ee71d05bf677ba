// Package report_repo provides the PostgreSQL implementation of the
// report repository. All queries are read-only aggregates.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storekeeper/internal/domain/reports"
	"storekeeper/internal/infrastructure/storage/postgres"
)

// latestCostJoin resolves each item's current unit cost from its most
// recent intake row. Shared by every outflow valuation query.
const latestCostJoin = `LEFT JOIN LATERAL (
	SELECT s.unit_cost, s.date_added
	FROM ldg_stock_entries s
	WHERE s.item_id = i.item_id
	ORDER BY s.date_added DESC, s.id DESC
	LIMIT 1
) ls ON TRUE`

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetDashboardTotals collects the headline counters in one round trip.
func (r *ReportRepo) GetDashboardTotals(ctx context.Context) (*reports.DashboardTotals, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM cat_items WHERE NOT deletion_mark) AS items,
			(SELECT COUNT(*) FROM cat_categories WHERE NOT deletion_mark) AS categories,
			(SELECT COUNT(*) FROM cat_departments WHERE NOT deletion_mark) AS departments,
			(SELECT COUNT(*) FROM cat_employees WHERE NOT deletion_mark) AS employees,
			(SELECT COUNT(*) FROM cat_suppliers WHERE NOT deletion_mark) AS suppliers,
			(SELECT COALESCE(SUM(quantity), 0) FROM reg_balances) AS on_hand_quantity,
			(SELECT COALESCE(SUM(quantity), 0) FROM ldg_issue_entries) AS issued_quantity,
			(SELECT COALESCE(SUM(total_cost), 0)::float8 FROM ldg_stock_entries) AS received_value,
			(SELECT COALESCE(SUM(i.quantity * COALESCE(ls.unit_cost, 0)), 0)::float8
			 FROM ldg_issue_entries i ` + latestCostJoin + `) AS issued_value,
			(SELECT COUNT(*) FROM reg_balances WHERE quantity > 0 AND quantity < $1) AS low_stock_count,
			(SELECT COUNT(*) FROM reg_balances WHERE quantity = 0) AS out_of_stock_count,
			(SELECT COUNT(*) FROM reg_balances
			 WHERE quantity > 0
			   AND expiry_date IS NOT NULL
			   AND expiry_date <= now() + interval '30 days') AS expiring_soon_count
	`

	var totals reports.DashboardTotals
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &totals, query, reports.LowStockThreshold); err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}
	return &totals, nil
}

// GetRecentMovements returns the latest ledger events, intake and
// issuance interleaved.
func (r *ReportRepo) GetRecentMovements(ctx context.Context, limit int) ([]reports.Movement, error) {
	query := `
		SELECT m.type, m.item_name, m.department_name, m.quantity, m.occurred_at
		FROM (
			SELECT 'receive' AS type, it.name AS item_name, d.name AS department_name,
			       s.quantity, s.created_at AS occurred_at
			FROM ldg_stock_entries s
			JOIN cat_items it ON it.id = s.item_id
			JOIN cat_departments d ON d.id = s.department_id
			UNION ALL
			SELECT 'issue' AS type, it.name AS item_name, d.name AS department_name,
			       i.quantity, i.created_at AS occurred_at
			FROM ldg_issue_entries i
			JOIN cat_items it ON it.id = i.item_id
			JOIN cat_departments d ON d.id = i.department_id
		) m
		ORDER BY m.occurred_at DESC
		LIMIT $1
	`

	var movements []reports.Movement
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &movements, query, limit); err != nil {
		return nil, fmt.Errorf("recent movements: %w", err)
	}
	return movements, nil
}

func bucketExpr(column, bucket string) string {
	if bucket == reports.BucketDay {
		return fmt.Sprintf("to_char(date_trunc('day', %s), 'YYYY-MM-DD')", column)
	}
	return fmt.Sprintf("to_char(date_trunc('month', %s), 'YYYY-MM')", column)
}

// GetInflowSeries buckets intake quantity and cost over time.
func (r *ReportRepo) GetInflowSeries(ctx context.Context, filter reports.InflowFilter) ([]reports.TimeBucket, error) {
	period := bucketExpr("s.date_added", filter.Bucket)

	q := r.builder.Select(
		period+" AS period",
		"COALESCE(SUM(s.quantity), 0) AS quantity",
		"COALESCE(SUM(s.total_cost), 0)::float8 AS value",
	).From("ldg_stock_entries s")
	q = applyInflowFilter(q, filter)
	q = q.GroupBy(period).OrderBy("period")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var buckets []reports.TimeBucket
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &buckets, sql, args...); err != nil {
		return nil, fmt.Errorf("inflow series: %w", err)
	}
	return buckets, nil
}

// GetOutflowSeries buckets issued quantity and derived value over time.
func (r *ReportRepo) GetOutflowSeries(ctx context.Context, filter reports.OutflowFilter) ([]reports.TimeBucket, error) {
	period := bucketExpr("i.created_at", filter.Bucket)

	q := r.builder.Select(
		period+" AS period",
		"COALESCE(SUM(i.quantity), 0) AS quantity",
		"COALESCE(SUM(i.quantity * COALESCE(ls.unit_cost, 0)), 0)::float8 AS value",
	).From("ldg_issue_entries i").
		JoinClause(latestCostJoin)
	q = applyOutflowFilter(q, filter)
	q = q.GroupBy(period).OrderBy("period")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var buckets []reports.TimeBucket
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &buckets, sql, args...); err != nil {
		return nil, fmt.Errorf("outflow series: %w", err)
	}
	return buckets, nil
}

// GetTopIssuedItems ranks items by total issued quantity.
func (r *ReportRepo) GetTopIssuedItems(ctx context.Context, limit int) ([]reports.TopItem, error) {
	query := `
		SELECT i.item_id, it.name AS item_name, SUM(i.quantity) AS quantity
		FROM ldg_issue_entries i
		JOIN cat_items it ON it.id = i.item_id
		GROUP BY i.item_id, it.name
		ORDER BY quantity DESC, it.name
		LIMIT $1
	`

	var items []reports.TopItem
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &items, query, limit); err != nil {
		return nil, fmt.Errorf("top issued items: %w", err)
	}
	return items, nil
}

// GetInflowRows aggregates intake per item.
func (r *ReportRepo) GetInflowRows(ctx context.Context, filter reports.InflowFilter) ([]reports.InflowRow, error) {
	q := r.builder.Select(
		"s.item_id",
		"it.name AS item_name",
		"COALESCE(c.name, '') AS category_name",
		"COALESCE(SUM(s.quantity), 0) AS quantity",
		"COALESCE(SUM(s.total_cost), 0)::float8 AS total_cost",
	).From("ldg_stock_entries s").
		Join("cat_items it ON it.id = s.item_id").
		LeftJoin("cat_categories c ON c.id = it.category_id")
	q = applyInflowFilter(q, filter)
	q = q.GroupBy("s.item_id", "it.name", "c.name").
		OrderBy("total_cost DESC", "it.name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.InflowRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("inflow rows: %w", err)
	}
	return rows, nil
}

// GetOutflowRows aggregates issuance per department with derived
// values.
func (r *ReportRepo) GetOutflowRows(ctx context.Context, filter reports.OutflowFilter) ([]reports.OutflowRow, error) {
	q := r.builder.Select(
		"i.department_id",
		"d.name AS department_name",
		"COALESCE(SUM(i.quantity), 0) AS quantity",
		"COALESCE(SUM(i.quantity * COALESCE(ls.unit_cost, 0)), 0)::float8 AS total_value",
	).From("ldg_issue_entries i").
		Join("cat_departments d ON d.id = i.department_id").
		JoinClause(latestCostJoin)
	q = applyOutflowFilter(q, filter)
	q = q.GroupBy("i.department_id", "d.name").
		OrderBy("total_value DESC", "d.name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.OutflowRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("outflow rows: %w", err)
	}
	return rows, nil
}

// GetCostRows aggregates acquisition cost per item.
func (r *ReportRepo) GetCostRows(ctx context.Context, filter reports.CostFilter) ([]reports.CostRow, error) {
	q := r.builder.Select(
		"s.item_id",
		"it.name AS item_name",
		"COALESCE(c.name, '') AS category_name",
		"COALESCE(SUM(s.quantity), 0) AS quantity",
		"COALESCE(AVG(s.unit_cost), 0)::float8 AS avg_unit_cost",
		"COALESCE(MAX(s.unit_cost), 0)::float8 AS max_unit_cost",
		"COALESCE(SUM(s.total_cost), 0)::float8 AS total_cost",
	).From("ldg_stock_entries s").
		Join("cat_items it ON it.id = s.item_id").
		LeftJoin("cat_categories c ON c.id = it.category_id")

	if filter.CategoryID != nil {
		q = q.Where(squirrel.Eq{"it.category_id": *filter.CategoryID})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"s.date_added": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.LtOrEq{"s.date_added": *filter.To})
	}

	q = q.GroupBy("s.item_id", "it.name", "c.name").
		OrderBy("total_cost DESC", "it.name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.CostRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("cost rows: %w", err)
	}
	return rows, nil
}

// GetDepartmentRows breaks holdings and issuance down by department.
func (r *ReportRepo) GetDepartmentRows(ctx context.Context, rng reports.DateRange) ([]reports.DepartmentRow, error) {
	query := `
		SELECT
			d.id AS department_id,
			d.name AS department_name,
			COALESCE(e.employees, 0) AS employees,
			COALESCE(b.distinct_items, 0) AS distinct_items,
			COALESCE(b.on_hand, 0) AS on_hand_quantity,
			COALESCE(o.issued_quantity, 0) AS issued_quantity,
			COALESCE(o.issued_value, 0)::float8 AS issued_value
		FROM cat_departments d
		LEFT JOIN (
			SELECT department_id, COUNT(*) AS employees
			FROM cat_employees
			WHERE NOT deletion_mark
			GROUP BY department_id
		) e ON e.department_id = d.id
		LEFT JOIN (
			SELECT department_id,
			       COUNT(*) FILTER (WHERE quantity > 0) AS distinct_items,
			       SUM(quantity) AS on_hand
			FROM reg_balances
			GROUP BY department_id
		) b ON b.department_id = d.id
		LEFT JOIN (
			SELECT i.department_id,
			       SUM(i.quantity) AS issued_quantity,
			       SUM(i.quantity * COALESCE(ls.unit_cost, 0)) AS issued_value
			FROM ldg_issue_entries i ` + latestCostJoin + `
			WHERE ($1::timestamptz IS NULL OR i.created_at >= $1)
			  AND ($2::timestamptz IS NULL OR i.created_at <= $2)
			GROUP BY i.department_id
		) o ON o.department_id = d.id
		WHERE NOT d.deletion_mark
		ORDER BY d.name
	`

	var rows []reports.DepartmentRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, query, rng.From, rng.To); err != nil {
		return nil, fmt.Errorf("department rows: %w", err)
	}
	return rows, nil
}

// GetSummaryRows returns the paginated inventory summary.
func (r *ReportRepo) GetSummaryRows(ctx context.Context, filter reports.SummaryFilter) ([]reports.SummaryRow, int64, error) {
	base := r.builder.Select().
		From("reg_balances b").
		Join("cat_items it ON it.id = b.item_id").
		Join("cat_departments d ON d.id = b.department_id").
		LeftJoin("cat_categories c ON c.id = it.category_id")

	if filter.DepartmentID != nil {
		base = base.Where(squirrel.Eq{"b.department_id": *filter.DepartmentID})
	}
	if filter.CategoryID != nil {
		base = base.Where(squirrel.Eq{"it.category_id": *filter.CategoryID})
	}
	if filter.ExcludeZero {
		base = base.Where(squirrel.Gt{"b.quantity": 0})
	}

	countQ := base.Columns("COUNT(*)")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)

	var total int64
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count summary rows: %w", err)
	}

	q := base.Columns(
		"b.item_id",
		"it.name AS item_name",
		"COALESCE(c.name, '') AS category_name",
		"b.department_id",
		"d.name AS department_name",
		"b.quantity AS on_hand",
		"COALESCE(ls.unit_cost, 0)::float8 AS latest_unit_cost",
		"(b.quantity * COALESCE(ls.unit_cost, 0))::float8 AS stock_value",
		"ls.date_added AS date_purchased",
	).JoinClause(`LEFT JOIN LATERAL (
		SELECT s.unit_cost, s.date_added
		FROM ldg_stock_entries s
		WHERE s.item_id = b.item_id
		ORDER BY s.date_added DESC, s.id DESC
		LIMIT 1
	) ls ON TRUE`).
		OrderBy("d.name", "it.name")

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

	var rows []reports.SummaryRow
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("summary rows: %w", err)
	}
	return rows, total, nil
}

// GetReferenceRows groups ledger rows by their reference number. Issue
// vouchers come from the issue history; purchase orders and delivery
// notes from the intake history.
func (r *ReportRepo) GetReferenceRows(ctx context.Context, kind string, rng reports.DateRange) ([]reports.ReferenceRow, error) {
	var query string
	switch kind {
	case reports.ReferenceVoucher:
		query = `
			SELECT i.voucher_number AS reference,
			       COUNT(*) AS entries,
			       COUNT(DISTINCT i.item_id) AS items,
			       COALESCE(SUM(i.quantity), 0) AS quantity,
			       COALESCE(SUM(i.quantity * COALESCE(ls.unit_cost, 0)), 0)::float8 AS total_value,
			       MIN(i.created_at) AS first_date,
			       MAX(i.created_at) AS last_date
			FROM ldg_issue_entries i ` + latestCostJoin + `
			WHERE i.voucher_number <> ''
			  AND ($1::timestamptz IS NULL OR i.created_at >= $1)
			  AND ($2::timestamptz IS NULL OR i.created_at <= $2)
			GROUP BY i.voucher_number
			ORDER BY last_date DESC
		`
	case reports.ReferenceLPO, reports.ReferenceDelivery:
		column := "s.lpo_number"
		if kind == reports.ReferenceDelivery {
			column = "s.delivery_number"
		}
		query = `
			SELECT ` + column + ` AS reference,
			       COUNT(*) AS entries,
			       COUNT(DISTINCT s.item_id) AS items,
			       COALESCE(SUM(s.quantity), 0) AS quantity,
			       COALESCE(SUM(s.total_cost), 0)::float8 AS total_value,
			       MIN(s.date_added) AS first_date,
			       MAX(s.date_added) AS last_date
			FROM ldg_stock_entries s
			WHERE ` + column + ` IS NOT NULL AND ` + column + ` <> ''
			  AND ($1::timestamptz IS NULL OR s.date_added >= $1)
			  AND ($2::timestamptz IS NULL OR s.date_added <= $2)
			GROUP BY ` + column + `
			ORDER BY last_date DESC
		`
	default:
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}

	var rows []reports.ReferenceRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, query, rng.From, rng.To); err != nil {
		return nil, fmt.Errorf("reference rows (%s): %w", kind, err)
	}
	return rows, nil
}

// GetRemainingRows pairs each delivery with the issued-to-date and
// remaining quantity of its item in the receiving department.
func (r *ReportRepo) GetRemainingRows(ctx context.Context, rng reports.DateRange) ([]reports.RemainingRow, error) {
	query := `
		SELECT s.id AS entry_id,
		       s.item_id,
		       it.name AS item_name,
		       s.department_id,
		       d.name AS department_name,
		       s.date_added,
		       s.quantity AS received,
		       COALESCE(o.issued, 0) AS issued_to_date,
		       GREATEST(s.quantity - COALESCE(o.issued, 0), 0) AS remaining
		FROM ldg_stock_entries s
		JOIN cat_items it ON it.id = s.item_id
		JOIN cat_departments d ON d.id = s.department_id
		LEFT JOIN (
			SELECT item_id, department_id, SUM(quantity) AS issued
			FROM ldg_issue_entries
			GROUP BY item_id, department_id
		) o ON o.item_id = s.item_id AND o.department_id = s.department_id
		WHERE ($1::timestamptz IS NULL OR s.date_added >= $1)
		  AND ($2::timestamptz IS NULL OR s.date_added <= $2)
		ORDER BY s.date_added DESC, it.name
	`

	var rows []reports.RemainingRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, query, rng.From, rng.To); err != nil {
		return nil, fmt.Errorf("remaining rows: %w", err)
	}
	return rows, nil
}

func applyInflowFilter(q squirrel.SelectBuilder, f reports.InflowFilter) squirrel.SelectBuilder {
	if f.DepartmentID != nil {
		q = q.Where(squirrel.Eq{"s.department_id": *f.DepartmentID})
	}
	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"s.supplier_id": *f.SupplierID})
	}
	if f.CategoryID != nil {
		q = q.Where(squirrel.Expr(
			"s.item_id IN (SELECT id FROM cat_items WHERE category_id = ?)", *f.CategoryID,
		))
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"s.date_added": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"s.date_added": *f.To})
	}
	return q
}

func applyOutflowFilter(q squirrel.SelectBuilder, f reports.OutflowFilter) squirrel.SelectBuilder {
	if f.DepartmentID != nil {
		q = q.Where(squirrel.Eq{"i.department_id": *f.DepartmentID})
	}
	if f.ItemID != nil {
		q = q.Where(squirrel.Eq{"i.item_id": *f.ItemID})
	}
	if f.From != nil {
		q = q.Where(squirrel.GtOrEq{"i.created_at": *f.From})
	}
	if f.To != nil {
		q = q.Where(squirrel.LtOrEq{"i.created_at": *f.To})
	}
	return q
}
