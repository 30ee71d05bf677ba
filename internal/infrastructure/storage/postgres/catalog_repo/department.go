package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/domain/catalogs/department"
	"storekeeper/internal/infrastructure/storage/postgres"
)

const departmentTable = "cat_departments"

var departmentColumns = []string{
	"id", "code", "name", "deletion_mark", "version", "attributes",
	"created_at", "updated_at",
	"description",
}

// DepartmentRepo is the PostgreSQL implementation of department.Repository.
type DepartmentRepo struct {
	*BaseCatalogRepo[*department.Department]
}

// NewDepartmentRepo creates a new Department repository.
func NewDepartmentRepo(txManager *postgres.TxManager) department.Repository {
	return &DepartmentRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			departmentTable,
			departmentColumns,
			func() *department.Department { return &department.Department{} },
		),
	}
}

// FindByName returns a department with the exact name, or nil when absent.
func (r *DepartmentRepo) FindByName(ctx context.Context, name string) (*department.Department, error) {
	q := r.baseSelect(ctx).
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	found, err := r.FindOne(ctx, q)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return found, nil
}
