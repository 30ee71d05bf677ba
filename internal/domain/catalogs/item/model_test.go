package item

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storekeeper/internal/core/apperror"
)

func TestItemKind(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Item)
		want Kind
	}{
		{"plain by default", func(*Item) {}, KindPlain},
		{"expiring", func(i *Item) { i.Expires = true }, KindExpiring},
		{"depreciating", func(i *Item) { i.Depreciates = true }, KindDepreciating},
		{"engraved", func(i *Item) { i.Engraved = true }, KindEngraved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewItem("ITM-001", "Test item")
			tt.mut(it)
			assert.Equal(t, tt.want, it.Kind())
		})
	}
}

func TestItemValidate(t *testing.T) {
	ctx := context.Background()

	it := NewItem("ITM-001", "Laptop")
	it.Engraved = true
	require.NoError(t, it.Validate(ctx))

	it.Expires = true
	err := it.Validate(ctx)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestItemValidateRequiresName(t *testing.T) {
	it := NewItem("ITM-001", "")
	assert.Error(t, it.Validate(context.Background()))
}
