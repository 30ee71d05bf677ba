package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"storekeeper/internal/core/entity"
	"storekeeper/internal/core/id"
)

type testCatalog struct {
	entity.Catalog
	Description *string `db:"description" json:"description,omitempty"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[testCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "attributes",
		"created_at", "updated_at", "code", "name", "description",
	}

	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestStructToMap(t *testing.T) {
	now := time.Now().UTC()
	desc := "spare keyboards"
	cat := testCatalog{
		Catalog: entity.Catalog{
			BaseCatalog: entity.BaseCatalog{
				BaseEntity: entity.BaseEntity{
					ID:           id.New(),
					DeletionMark: true,
					Version:      5,
				},
				CreatedAt: now,
				UpdatedAt: now,
			},
			Code: "ITM-00042",
			Name: "Keyboard",
		},
		Description: &desc,
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "ITM-00042", m["code"])
	assert.Equal(t, "Keyboard", m["name"])
	assert.Equal(t, &desc, m["description"])
}
