package balance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/core/types"
)

type memRepo struct {
	quantities map[[2]id.ID]types.Quantity
}

func newMemRepo() *memRepo {
	return &memRepo{quantities: make(map[[2]id.ID]types.Quantity)}
}

func (r *memRepo) Get(ctx context.Context, itemID, departmentID id.ID) (Balance, error) {
	return Balance{
		ItemID:       itemID,
		DepartmentID: departmentID,
		Quantity:     r.quantities[[2]id.ID{itemID, departmentID}],
	}, nil
}

func (r *memRepo) GetForUpdate(ctx context.Context, itemID, departmentID id.ID) (Balance, error) {
	return r.Get(ctx, itemID, departmentID)
}

func (r *memRepo) ApplyDelta(ctx context.Context, itemID, departmentID id.ID, delta types.Quantity) error {
	r.quantities[[2]id.ID{itemID, departmentID}] += delta
	return nil
}

func (r *memRepo) UpdateDates(ctx context.Context, itemID, departmentID id.ID, expiry, depreciation *time.Time) error {
	return nil
}

func (r *memRepo) ListByDepartment(ctx context.Context, departmentID id.ID, filter Filter) ([]Balance, error) {
	var out []Balance
	for k, q := range r.quantities {
		if k[1] != departmentID {
			continue
		}
		if filter.ExcludeZero && q == 0 {
			continue
		}
		out = append(out, Balance{ItemID: k[0], DepartmentID: k[1], Quantity: q})
	}
	return out, nil
}

func (r *memRepo) ListByItem(ctx context.Context, itemID id.ID) ([]Balance, error) {
	var out []Balance
	for k, q := range r.quantities {
		if k[0] == itemID {
			out = append(out, Balance{ItemID: k[0], DepartmentID: k[1], Quantity: q})
		}
	}
	return out, nil
}

func (r *memRepo) TotalByItem(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	var total types.Quantity
	for k, q := range r.quantities {
		if k[0] == itemID {
			total += q
		}
	}
	return total, nil
}

func TestCheckAndReserve(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	itemID, deptID := id.New(), id.New()
	require.NoError(t, svc.Increase(ctx, itemID, deptID, 10))

	bal, err := svc.CheckAndReserve(ctx, itemID, deptID, 10)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(10), bal.Quantity)

	_, err = svc.CheckAndReserve(ctx, itemID, deptID, 11)
	assert.True(t, apperror.IsInsufficientStock(err))

	_, err = svc.CheckAndReserve(ctx, itemID, deptID, 0)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCheckAndReserveMissingRow(t *testing.T) {
	svc := NewService(newMemRepo())

	// With no receipts at all the zero balance cannot satisfy anything.
	_, err := svc.CheckAndReserve(context.Background(), id.New(), id.New(), 1)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestIncreaseDecrease(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	itemID, deptID := id.New(), id.New()
	require.NoError(t, svc.Increase(ctx, itemID, deptID, 7))
	require.NoError(t, svc.Decrease(ctx, itemID, deptID, 3))

	bal, err := svc.Get(ctx, itemID, deptID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(4), bal.Quantity)

	assert.Error(t, svc.Increase(ctx, itemID, deptID, 0))
	assert.Error(t, svc.Decrease(ctx, itemID, deptID, -1))
}

func TestHasStock(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	deptID := id.New()
	got, err := svc.HasStock(ctx, deptID)
	require.NoError(t, err)
	assert.False(t, got)

	itemID := id.New()
	require.NoError(t, svc.Increase(ctx, itemID, deptID, 2))
	got, err = svc.HasStock(ctx, deptID)
	require.NoError(t, err)
	assert.True(t, got)

	// A department drained back to zero no longer counts as holding stock.
	require.NoError(t, svc.Decrease(ctx, itemID, deptID, 2))
	got, err = svc.HasStock(ctx, deptID)
	require.NoError(t, err)
	assert.False(t, got)
}

func TestGetItemAvailabilitySpansDepartments(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	itemID := id.New()
	require.NoError(t, svc.Increase(ctx, itemID, id.New(), 5))
	require.NoError(t, svc.Increase(ctx, itemID, id.New(), 8))

	total, err := svc.GetItemAvailability(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(13), total)
}
