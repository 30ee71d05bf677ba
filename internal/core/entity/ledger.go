package entity

import (
	"time"

	"storekeeper/internal/core/id"
)

// LedgerEntry contains common fields for append-only history rows.
// Entries are immutable once written; corrections are new entries.
type LedgerEntry struct {
	// ID is the primary key (UUIDv7, time-ordered)
	ID id.ID `db:"id" json:"id"`

	// CreatedAt is when the entry was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	// CreatedBy is the acting user's id (empty for system entries)
	CreatedBy string `db:"created_by" json:"createdBy,omitempty"`
}

// NewLedgerEntry creates an entry base with generated ID and timestamp.
func NewLedgerEntry(createdBy string) LedgerEntry {
	return LedgerEntry{
		ID:        id.New(),
		CreatedAt: time.Now().UTC(),
		CreatedBy: createdBy,
	}
}
