package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/core/id"
	"storekeeper/internal/core/numerator"
	"storekeeper/internal/core/types"
	"storekeeper/internal/domain/catalogs/employee"
	"storekeeper/internal/domain/catalogs/item"
	"storekeeper/internal/domain/registers/balance"
)

// --- Mocks ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLedgerRepo struct {
	stockEntries []*StockEntry
	issueEntries []*IssueEntry
	markedIssued []id.ID
}

func (r *fakeLedgerRepo) CreateStockEntry(ctx context.Context, entry *StockEntry) error {
	r.stockEntries = append(r.stockEntries, entry)
	return nil
}

func (r *fakeLedgerRepo) CreateStockEntries(ctx context.Context, entries []*StockEntry) error {
	r.stockEntries = append(r.stockEntries, entries...)
	return nil
}

func (r *fakeLedgerRepo) GetStockEntry(ctx context.Context, entryID id.ID) (*StockEntry, error) {
	for _, e := range r.stockEntries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("stock entry", entryID.String())
}

func (r *fakeLedgerRepo) GetLatestStockEntry(ctx context.Context, itemID id.ID) (*StockEntry, error) {
	var latest *StockEntry
	for _, e := range r.stockEntries {
		if e.ItemID != itemID {
			continue
		}
		if latest == nil || e.DateAdded.After(latest.DateAdded) {
			latest = e
		}
	}
	return latest, nil
}

func (r *fakeLedgerRepo) ListStockEntries(ctx context.Context, filter StockEntryFilter) ([]*StockEntry, int64, error) {
	return r.stockEntries, int64(len(r.stockEntries)), nil
}

func (r *fakeLedgerRepo) FindUnissuedEngraved(ctx context.Context, itemID id.ID, engravedNumber string) (*StockEntry, error) {
	for _, e := range r.stockEntries {
		if e.ItemID == itemID && e.EngravedNumber != nil && *e.EngravedNumber == engravedNumber && !e.Issued {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("stock entry", engravedNumber)
}

func (r *fakeLedgerRepo) MarkIssued(ctx context.Context, entryID id.ID) error {
	for _, e := range r.stockEntries {
		if e.ID == entryID {
			e.Issued = true
			r.markedIssued = append(r.markedIssued, entryID)
			return nil
		}
	}
	return apperror.NewNotFound("stock entry", entryID.String())
}

func (r *fakeLedgerRepo) CountUnissuedEngraved(ctx context.Context, itemID id.ID) (int64, error) {
	var n int64
	for _, e := range r.stockEntries {
		if e.ItemID == itemID && e.EngravedNumber != nil && !e.Issued {
			n++
		}
	}
	return n, nil
}

func (r *fakeLedgerRepo) EngravedNumberInStock(ctx context.Context, itemID id.ID, engravedNumber string) (bool, error) {
	for _, e := range r.stockEntries {
		if e.ItemID == itemID && e.EngravedNumber != nil && *e.EngravedNumber == engravedNumber && !e.Issued {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLedgerRepo) CreateIssueEntry(ctx context.Context, entry *IssueEntry) error {
	r.issueEntries = append(r.issueEntries, entry)
	return nil
}

func (r *fakeLedgerRepo) GetIssueEntry(ctx context.Context, entryID id.ID) (*IssueEntry, error) {
	for _, e := range r.issueEntries {
		if e.ID == entryID {
			return e, nil
		}
	}
	return nil, apperror.NewNotFound("issue entry", entryID.String())
}

func (r *fakeLedgerRepo) ListIssueEntries(ctx context.Context, filter IssueEntryFilter) ([]*IssueEntry, int64, error) {
	return r.issueEntries, int64(len(r.issueEntries)), nil
}

func (r *fakeLedgerRepo) HasStockForDepartment(ctx context.Context, departmentID id.ID) (bool, error) {
	for _, e := range r.stockEntries {
		if e.DepartmentID == departmentID {
			return true, nil
		}
	}
	return false, nil
}

type balanceKey struct {
	itemID       id.ID
	departmentID id.ID
}

type fakeBalanceRepo struct {
	quantities map[balanceKey]types.Quantity
	dates      map[balanceKey][2]*time.Time
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{
		quantities: make(map[balanceKey]types.Quantity),
		dates:      make(map[balanceKey][2]*time.Time),
	}
}

func (r *fakeBalanceRepo) Get(ctx context.Context, itemID, departmentID id.ID) (balance.Balance, error) {
	k := balanceKey{itemID, departmentID}
	return balance.Balance{ItemID: itemID, DepartmentID: departmentID, Quantity: r.quantities[k]}, nil
}

func (r *fakeBalanceRepo) GetForUpdate(ctx context.Context, itemID, departmentID id.ID) (balance.Balance, error) {
	return r.Get(ctx, itemID, departmentID)
}

func (r *fakeBalanceRepo) ApplyDelta(ctx context.Context, itemID, departmentID id.ID, delta types.Quantity) error {
	r.quantities[balanceKey{itemID, departmentID}] += delta
	return nil
}

func (r *fakeBalanceRepo) UpdateDates(ctx context.Context, itemID, departmentID id.ID, expiry, depreciation *time.Time) error {
	r.dates[balanceKey{itemID, departmentID}] = [2]*time.Time{expiry, depreciation}
	return nil
}

func (r *fakeBalanceRepo) ListByDepartment(ctx context.Context, departmentID id.ID, filter balance.Filter) ([]balance.Balance, error) {
	var out []balance.Balance
	for k, q := range r.quantities {
		if k.departmentID == departmentID {
			out = append(out, balance.Balance{ItemID: k.itemID, DepartmentID: k.departmentID, Quantity: q})
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) ListByItem(ctx context.Context, itemID id.ID) ([]balance.Balance, error) {
	var out []balance.Balance
	for k, q := range r.quantities {
		if k.itemID == itemID {
			out = append(out, balance.Balance{ItemID: k.itemID, DepartmentID: k.departmentID, Quantity: q})
		}
	}
	return out, nil
}

func (r *fakeBalanceRepo) TotalByItem(ctx context.Context, itemID id.ID) (types.Quantity, error) {
	var total types.Quantity
	for k, q := range r.quantities {
		if k.itemID == itemID {
			total += q
		}
	}
	return total, nil
}

type fakeItemLookup struct {
	items map[id.ID]*item.Item
}

func (l *fakeItemLookup) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	if it, ok := l.items[itemID]; ok {
		return it, nil
	}
	return nil, apperror.NewNotFound("item", itemID.String())
}

type fakeEmployeeLookup struct {
	employees map[id.ID]*employee.Employee
}

func (l *fakeEmployeeLookup) GetByID(ctx context.Context, employeeID id.ID) (*employee.Employee, error) {
	if emp, ok := l.employees[employeeID]; ok {
		return emp, nil
	}
	return nil, apperror.NewNotFound("employee", employeeID.String())
}

// --- Fixture ---

type fixture struct {
	service  *Service
	repo     *fakeLedgerRepo
	balances *fakeBalanceRepo

	plainItem    *item.Item
	engravedItem *item.Item
	department   id.ID
	recipient    *employee.Employee
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	plain := item.NewItem("ITM-001", "Printer paper")
	engraved := item.NewItem("ITM-002", "Laptop")
	engraved.Engraved = true

	departmentID := id.New()
	office := "Block A"
	emp := employee.NewEmployee("EMP-001", "Alice Wanjiru", departmentID)
	emp.Office = &office

	repo := &fakeLedgerRepo{}
	balances := newFakeBalanceRepo()

	service := NewService(
		repo,
		balance.NewService(balances),
		&fakeItemLookup{items: map[id.ID]*item.Item{plain.ID: plain, engraved.ID: engraved}},
		&fakeEmployeeLookup{employees: map[id.ID]*employee.Employee{emp.ID: emp}},
		func(ctx context.Context, depID id.ID) (bool, error) { return depID == departmentID, nil },
		fakeTxManager{},
		&numerator.MockGenerator{},
	)

	return &fixture{
		service:      service,
		repo:         repo,
		balances:     balances,
		plainItem:    plain,
		engravedItem: engraved,
		department:   departmentID,
		recipient:    emp,
	}
}

func money(s string) types.Money {
	return decimal.RequireFromString(s)
}

// --- Receive ---

func TestReceive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entry, err := f.service.Receive(ctx, ReceiveRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		Quantity:     10,
		UnitCost:     money("25.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(10), entry.Quantity)
	assert.True(t, entry.TotalCost.Equal(money("255")), "total cost should be quantity * unit cost")
	assert.False(t, entry.DateAdded.IsZero())

	total, err := f.balances.TotalByItem(ctx, f.plainItem.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(10), total)
}

func TestReceiveAccumulatesBalance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.service.Receive(ctx, ReceiveRequest{
			ItemID:       f.plainItem.ID,
			DepartmentID: f.department,
			Quantity:     5,
			UnitCost:     money("1"),
		})
		require.NoError(t, err)
	}

	total, err := f.balances.TotalByItem(ctx, f.plainItem.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(15), total)
}

func TestReceiveRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)

	for _, qty := range []types.Quantity{0, -3} {
		_, err := f.service.Receive(context.Background(), ReceiveRequest{
			ItemID:       f.plainItem.ID,
			DepartmentID: f.department,
			Quantity:     qty,
			UnitCost:     money("1"),
		})
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}

func TestReceiveRejectsNegativeUnitCost(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Receive(context.Background(), ReceiveRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		Quantity:     1,
		UnitCost:     money("-0.01"),
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReceiveRejectsEngravedItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Receive(context.Background(), ReceiveRequest{
		ItemID:       f.engravedItem.ID,
		DepartmentID: f.department,
		Quantity:     2,
		UnitCost:     money("100"),
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReceiveRejectsUnknownDepartment(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Receive(context.Background(), ReceiveRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: id.New(),
		Quantity:     1,
		UnitCost:     money("1"),
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestReceiveRejectsExpiryDateForNonExpiringItem(t *testing.T) {
	f := newFixture(t)
	expiry := time.Now().AddDate(1, 0, 0)

	_, err := f.service.Receive(context.Background(), ReceiveRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		Quantity:     1,
		UnitCost:     money("1"),
		ExpiryDate:   &expiry,
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReceiveInheritsDatesOntoBalance(t *testing.T) {
	f := newFixture(t)
	f.plainItem.Expires = true
	expiry := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.service.Receive(context.Background(), ReceiveRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		Quantity:     4,
		UnitCost:     money("2"),
		ExpiryDate:   &expiry,
	})
	require.NoError(t, err)

	dates := f.balances.dates[balanceKey{f.plainItem.ID, f.department}]
	require.NotNil(t, dates[0])
	assert.True(t, dates[0].Equal(expiry))
	assert.Nil(t, dates[1])
}

// --- ReceiveEngraved ---

func TestReceiveEngraved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	entries, err := f.service.ReceiveEngraved(ctx, ReceiveEngravedRequest{
		ItemID:           f.engravedItem.ID,
		DepartmentID:     f.department,
		DeclaredQuantity: 3,
		UnitCost:         money("1200"),
		EngravedNumbers:  []string{"SN-001", "SN-002", "SN-003"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for _, e := range entries {
		assert.Equal(t, types.Quantity(1), e.Quantity)
		require.NotNil(t, e.EngravedNumber)
		assert.False(t, e.Issued)
	}

	total, err := f.balances.TotalByItem(ctx, f.engravedItem.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(3), total)
}

func TestReceiveEngravedRejectsCountMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReceiveEngraved(context.Background(), ReceiveEngravedRequest{
		ItemID:           f.engravedItem.ID,
		DepartmentID:     f.department,
		DeclaredQuantity: 5,
		UnitCost:         money("1200"),
		EngravedNumbers:  []string{"SN-001", "SN-002"},
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReceiveEngravedRejectsDuplicateNumbersInRequest(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReceiveEngraved(context.Background(), ReceiveEngravedRequest{
		ItemID:           f.engravedItem.ID,
		DepartmentID:     f.department,
		DeclaredQuantity: 2,
		UnitCost:         money("1200"),
		EngravedNumbers:  []string{"SN-001", "SN-001"},
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReceiveEngravedRejectsNumberAlreadyInStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ReceiveEngraved(ctx, ReceiveEngravedRequest{
		ItemID:           f.engravedItem.ID,
		DepartmentID:     f.department,
		DeclaredQuantity: 1,
		UnitCost:         money("1200"),
		EngravedNumbers:  []string{"SN-001"},
	})
	require.NoError(t, err)

	_, err = f.service.ReceiveEngraved(ctx, ReceiveEngravedRequest{
		ItemID:           f.engravedItem.ID,
		DepartmentID:     f.department,
		DeclaredQuantity: 1,
		UnitCost:         money("1200"),
		EngravedNumbers:  []string{"SN-001"},
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestReceiveEngravedRejectsPlainItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ReceiveEngraved(context.Background(), ReceiveEngravedRequest{
		ItemID:           f.plainItem.ID,
		DepartmentID:     f.department,
		DeclaredQuantity: 1,
		UnitCost:         money("1"),
		EngravedNumbers:  []string{"SN-001"},
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

// --- Issue ---

func TestIssue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Receive(ctx, ReceiveRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		Quantity:     10,
		UnitCost:     money("25.50"),
	})
	require.NoError(t, err)

	entry, err := f.service.Issue(ctx, IssueRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		EmployeeID:   f.recipient.ID,
		Quantity:     4,
	})
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(4), entry.Quantity)
	assert.Equal(t, "MOCK-2026-00001", entry.VoucherNumber, "voucher should be generated when not supplied")
	require.NotNil(t, entry.Office)
	assert.Equal(t, "Block A", *entry.Office)
	assert.True(t, entry.UnitCost.Equal(money("25.50")), "unit cost derives from the latest intake")
	require.NotNil(t, entry.DatePurchased)
	assert.True(t, entry.TotalCost().Equal(money("102")))

	total, err := f.balances.TotalByItem(ctx, f.plainItem.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(6), total)
}

func TestIssueKeepsSuppliedVoucher(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Receive(ctx, ReceiveRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		Quantity:     5,
		UnitCost:     money("1"),
	})
	require.NoError(t, err)

	entry, err := f.service.Issue(ctx, IssueRequest{
		ItemID:        f.plainItem.ID,
		DepartmentID:  f.department,
		EmployeeID:    f.recipient.ID,
		Quantity:      1,
		VoucherNumber: "IVN-42",
	})
	require.NoError(t, err)
	assert.Equal(t, "IVN-42", entry.VoucherNumber)
}

func TestIssueInsufficientStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Receive(ctx, ReceiveRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		Quantity:     2,
		UnitCost:     money("1"),
	})
	require.NoError(t, err)

	_, err = f.service.Issue(ctx, IssueRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		EmployeeID:   f.recipient.ID,
		Quantity:     3,
	})
	assert.True(t, apperror.IsInsufficientStock(err))

	// Balance untouched on failure.
	total, err := f.balances.TotalByItem(ctx, f.plainItem.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(2), total)
}

func TestIssueRejectsRecipientFromOtherDepartment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Receive(ctx, ReceiveRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		Quantity:     5,
		UnitCost:     money("1"),
	})
	require.NoError(t, err)

	stranger := employee.NewEmployee("EMP-002", "Brian Kiptoo", id.New())
	lookup := f.service.employees.(*fakeEmployeeLookup)
	lookup.employees[stranger.ID] = stranger

	_, err = f.service.Issue(ctx, IssueRequest{
		ItemID:       f.plainItem.ID,
		DepartmentID: f.department,
		EmployeeID:   stranger.ID,
		Quantity:     1,
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestIssueRejectsEngravedItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Issue(context.Background(), IssueRequest{
		ItemID:       f.engravedItem.ID,
		DepartmentID: f.department,
		EmployeeID:   f.recipient.ID,
		Quantity:     1,
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

// --- IssueEngraved ---

func TestIssueEngraved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ReceiveEngraved(ctx, ReceiveEngravedRequest{
		ItemID:           f.engravedItem.ID,
		DepartmentID:     f.department,
		DeclaredQuantity: 2,
		UnitCost:         money("1200"),
		EngravedNumbers:  []string{"SN-001", "SN-002"},
	})
	require.NoError(t, err)

	entry, err := f.service.IssueEngraved(ctx, IssueEngravedRequest{
		ItemID:         f.engravedItem.ID,
		DepartmentID:   f.department,
		EmployeeID:     f.recipient.ID,
		EngravedNumber: "SN-001",
	})
	require.NoError(t, err)

	assert.Equal(t, types.Quantity(1), entry.Quantity)
	require.NotNil(t, entry.EngravedNumber)
	assert.Equal(t, "SN-001", *entry.EngravedNumber)
	require.Len(t, f.repo.markedIssued, 1)

	// SN-001 is no longer available; SN-002 still is.
	n, err := f.service.CountUnissuedEngraved(ctx, f.engravedItem.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	total, err := f.balances.TotalByItem(ctx, f.engravedItem.ID)
	require.NoError(t, err)
	assert.Equal(t, types.Quantity(1), total)
}

func TestIssueEngravedUnknownNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ReceiveEngraved(ctx, ReceiveEngravedRequest{
		ItemID:           f.engravedItem.ID,
		DepartmentID:     f.department,
		DeclaredQuantity: 1,
		UnitCost:         money("1200"),
		EngravedNumbers:  []string{"SN-001"},
	})
	require.NoError(t, err)

	_, err = f.service.IssueEngraved(ctx, IssueEngravedRequest{
		ItemID:         f.engravedItem.ID,
		DepartmentID:   f.department,
		EmployeeID:     f.recipient.ID,
		EngravedNumber: "SN-404",
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestIssueEngravedTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.ReceiveEngraved(ctx, ReceiveEngravedRequest{
		ItemID:           f.engravedItem.ID,
		DepartmentID:     f.department,
		DeclaredQuantity: 1,
		UnitCost:         money("1200"),
		EngravedNumbers:  []string{"SN-001"},
	})
	require.NoError(t, err)

	issue := IssueEngravedRequest{
		ItemID:         f.engravedItem.ID,
		DepartmentID:   f.department,
		EmployeeID:     f.recipient.ID,
		EngravedNumber: "SN-001",
	}

	_, err = f.service.IssueEngraved(ctx, issue)
	require.NoError(t, err)

	_, err = f.service.IssueEngraved(ctx, issue)
	assert.True(t, apperror.IsNotFound(err), "an issued unit must not match again")
}

func TestIssueEngravedRejectsPlainItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.IssueEngraved(context.Background(), IssueEngravedRequest{
		ItemID:         f.plainItem.ID,
		DepartmentID:   f.department,
		EmployeeID:     f.recipient.ID,
		EngravedNumber: "SN-001",
	})
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
