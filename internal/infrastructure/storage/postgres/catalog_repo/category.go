package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/domain/catalogs/category"
	"storekeeper/internal/infrastructure/storage/postgres"
)

const categoryTable = "cat_categories"

var categoryColumns = []string{
	"id", "code", "name", "deletion_mark", "version", "attributes",
	"created_at", "updated_at",
	"description",
}

// CategoryRepo is the PostgreSQL implementation of category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

// NewCategoryRepo creates a new Category repository.
func NewCategoryRepo(txManager *postgres.TxManager) category.Repository {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			categoryTable,
			categoryColumns,
			func() *category.Category { return &category.Category{} },
		),
	}
}

// FindByName returns a category with the exact name, or nil when absent.
func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*category.Category, error) {
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
