// Package item provides the InventoryItem catalog.
// Items are the things tracked by the stock ledger.
package item

import (
	"context"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/entity"
	"storekeeper/internal/core/id"
)

// Kind classifies an item by how its lifecycle is tracked.
// Exactly one of the tracking flags maps to each non-plain kind.
type Kind string

const (
	// KindPlain items have no special lifecycle handling.
	KindPlain Kind = "plain"
	// KindExpiring items carry an expiry and surface in expiry reports.
	KindExpiring Kind = "expiring"
	// KindDepreciating items lose value over time.
	KindDepreciating Kind = "depreciating"
	// KindEngraved items are serialized: every unit is a separate
	// ledger row identified by its engraved number.
	KindEngraved Kind = "engraved"
)

// Item represents an inventory item.
type Item struct {
	entity.Catalog

	// Description is a free-form note
	Description *string `db:"description" json:"description,omitempty"`

	// CategoryID is the reference to the item category (nullable)
	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	// Expires marks items with a shelf life
	Expires bool `db:"expires" json:"expires"`

	// Depreciates marks items that lose value over time
	Depreciates bool `db:"depreciates" json:"depreciates"`

	// Engraved marks serialized items tracked per unit
	Engraved bool `db:"engraved" json:"engraved"`
}

// NewItem creates a new Item with required fields.
func NewItem(code, name string) *Item {
	return &Item{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Kind derives the tracking variant from the stored flags.
// Validate guarantees at most one flag is set.
func (i *Item) Kind() Kind {
	switch {
	case i.Engraved:
		return KindEngraved
	case i.Expires:
		return KindExpiring
	case i.Depreciates:
		return KindDepreciating
	default:
		return KindPlain
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	// The flags are mutually exclusive: an item has exactly one kind.
	set := 0
	for _, f := range []bool{i.Expires, i.Depreciates, i.Engraved} {
		if f {
			set++
		}
	}
	if set > 1 {
		return apperror.NewValidation("expires, depreciates and engraved are mutually exclusive").
			WithDetail("expires", i.Expires).
			WithDetail("depreciates", i.Depreciates).
			WithDetail("engraved", i.Engraved)
	}

	return nil
}

// IsEngraved reports whether stock for this item is tracked per unit.
func (i *Item) IsEngraved() bool {
	return i.Engraved
}
