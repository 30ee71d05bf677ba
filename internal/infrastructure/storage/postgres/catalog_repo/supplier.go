package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/domain/catalogs/supplier"
	"storekeeper/internal/infrastructure/storage/postgres"
)

const supplierTable = "cat_suppliers"

var supplierColumns = []string{
	"id", "code", "name", "deletion_mark", "version", "attributes",
	"created_at", "updated_at",
	"contact_person", "phone", "email", "address", "comment",
}

// SupplierRepo is the PostgreSQL implementation of supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new Supplier repository.
func NewSupplierRepo(txManager *postgres.TxManager) supplier.Repository {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			supplierTable,
			supplierColumns,
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}

// FindByName returns a supplier with the exact name, or nil when absent.
func (r *SupplierRepo) FindByName(ctx context.Context, name string) (*supplier.Supplier, error) {
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
