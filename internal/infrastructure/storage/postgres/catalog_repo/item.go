package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/domain/catalogs/item"
	"storekeeper/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_items"

var itemColumns = []string{
	"id", "code", "name", "deletion_mark", "version", "attributes",
	"created_at", "updated_at",
	"description", "category_id", "expires", "depreciates", "engraved",
}

// ItemRepo is the PostgreSQL implementation of item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.Item]
}

// NewItemRepo creates a new Item repository.
func NewItemRepo(txManager *postgres.TxManager) item.Repository {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			itemTable,
			itemColumns,
			func() *item.Item { return &item.Item{} },
		),
	}
}

// FindByName returns an item with the exact name, or nil when absent.
func (r *ItemRepo) FindByName(ctx context.Context, name string) (*item.Item, error) {
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

// ClearCategory removes the category reference from all items in the
// given category.
func (r *ItemRepo) ClearCategory(ctx context.Context, categoryID id.ID) error {
	q := r.Builder().
		Update(itemTable).
		Set("category_id", nil).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"category_id": categoryID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build clear category: %w", err)
	}

	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("clear category: %w", err)
	}
	return nil
}
