package employee

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storekeeper/internal/core/id"
)

func TestEmployeeValidate(t *testing.T) {
	ctx := context.Background()

	emp := NewEmployee("EMP-001", "Alice Wanjiru", id.New())
	require.NoError(t, emp.Validate(ctx))

	t.Run("department required", func(t *testing.T) {
		e := NewEmployee("EMP-002", "Brian Kiptoo", id.Nil())
		assert.Error(t, e.Validate(ctx))
	})

	t.Run("name required", func(t *testing.T) {
		e := NewEmployee("EMP-003", "", id.New())
		assert.Error(t, e.Validate(ctx))
	})

	t.Run("email format", func(t *testing.T) {
		e := NewEmployee("EMP-004", "Carol Achieng", id.New())

		bad := "not-an-email"
		e.Email = &bad
		assert.Error(t, e.Validate(ctx))

		good := "carol@example.org"
		e.Email = &good
		assert.NoError(t, e.Validate(ctx))

		empty := ""
		e.Email = &empty
		assert.NoError(t, e.Validate(ctx))
	})
}
