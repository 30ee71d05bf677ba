package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/catalogs/employee"
	"storekeeper/internal/infrastructure/storage/postgres"
)

const employeeTable = "cat_employees"

var employeeColumns = []string{
	"id", "code", "name", "deletion_mark", "version", "attributes",
	"created_at", "updated_at",
	"department_id", "position", "office", "phone", "email",
}

// EmployeeRepo is the PostgreSQL implementation of employee.Repository.
type EmployeeRepo struct {
	*BaseCatalogRepo[*employee.Employee]
}

// NewEmployeeRepo creates a new Employee repository.
func NewEmployeeRepo(txManager *postgres.TxManager) employee.Repository {
	return &EmployeeRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			employeeTable,
			employeeColumns,
			func() *employee.Employee { return &employee.Employee{} },
		),
	}
}

// ListByDepartment returns active employees assigned to a department.
func (r *EmployeeRepo) ListByDepartment(ctx context.Context, departmentID id.ID) ([]*employee.Employee, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"department_id": departmentID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var employees []*employee.Employee
	if err := pgxscan.Select(ctx, r.Querier(ctx), &employees, sql, args...); err != nil {
		return nil, fmt.Errorf("list by department: %w", err)
	}
	return employees, nil
}

// CountByDepartment returns the number of active employees in a department.
func (r *EmployeeRepo) CountByDepartment(ctx context.Context, departmentID id.ID) (int64, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(employeeTable).
		Where(squirrel.Eq{"department_id": departmentID}).
		Where(squirrel.Eq{"deletion_mark": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var count int64
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by department: %w", err)
	}
	return count, nil
}
