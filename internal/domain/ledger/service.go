package ledger

import (
	"context"
	"fmt"
	"time"

	"storekeeper/internal/core/apperror"
	appctx "storekeeper/internal/core/context"
	"storekeeper/internal/core/entity"
	"storekeeper/internal/core/id"
	"storekeeper/internal/core/numerator"
	"storekeeper/internal/core/tx"
	"storekeeper/internal/core/types"
	"storekeeper/internal/domain/catalogs/employee"
	"storekeeper/internal/domain/catalogs/item"
	"storekeeper/internal/domain/registers/balance"
	"storekeeper/pkg/logger"
)

// Issue vouchers are accountable documents, so numbers must be gapless.
var voucherNumeratorOpts = &numerator.Options{Strategy: numerator.StrategyStrict}

// ItemLookup resolves items referenced by ledger operations.
type ItemLookup interface {
	GetByID(ctx context.Context, itemID id.ID) (*item.Item, error)
}

// EmployeeLookup resolves issue recipients.
type EmployeeLookup interface {
	GetByID(ctx context.Context, employeeID id.ID) (*employee.Employee, error)
}

// DepartmentChecker verifies a department exists.
type DepartmentChecker func(ctx context.Context, departmentID id.ID) (bool, error)

// Auditor records ledger mutations in the audit trail. Implementations
// write within the surrounding transaction.
type Auditor interface {
	RecordReceive(ctx context.Context, entry *StockEntry) error
	RecordIssue(ctx context.Context, entry *IssueEntry) error
}

// Service provides the ledger operations. Every mutation runs in a
// single transaction covering the history row, the balance update and
// the audit record, so a failure leaves no partial state.
type Service struct {
	repo       Repository
	balances   *balance.Service
	items      ItemLookup
	employees  EmployeeLookup
	department DepartmentChecker
	txManager  tx.Manager
	numerator  numerator.Generator
	auditor    Auditor
}

// NewService creates a new ledger service.
func NewService(
	repo Repository,
	balances *balance.Service,
	items ItemLookup,
	employees EmployeeLookup,
	departmentCheck DepartmentChecker,
	txManager tx.Manager,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:       repo,
		balances:   balances,
		items:      items,
		employees:  employees,
		department: departmentCheck,
		txManager:  txManager,
		numerator:  gen,
	}
}

// SetAuditor wires audit trail recording.
func (s *Service) SetAuditor(a Auditor) {
	s.auditor = a
}

// ReceiveRequest describes one bulk (non-serialized) intake.
type ReceiveRequest struct {
	ItemID       id.ID
	DepartmentID id.ID

	Quantity types.Quantity
	UnitCost types.Money

	SupplierID     *id.ID
	LPONumber      *string
	DeliveryNumber *string

	ExpiryDate       *time.Time
	DepreciationDate *time.Time

	// DateAdded defaults to today.
	DateAdded time.Time
}

// Receive records a bulk delivery: appends a stock entry and raises the
// department balance by the received quantity.
func (s *Service) Receive(ctx context.Context, req ReceiveRequest) (*StockEntry, error) {
	if req.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive")
	}
	if req.UnitCost.IsNegative() {
		return nil, apperror.NewValidation("unit cost must not be negative")
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if it.IsEngraved() {
		return nil, apperror.NewValidation("engraved items must be received with serial numbers").
			WithDetail("item_id", req.ItemID.String())
	}
	if err := s.checkOptionalDates(it, req.ExpiryDate, req.DepreciationDate); err != nil {
		return nil, err
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	entry := &StockEntry{
		LedgerEntry:      entity.NewLedgerEntry(appctx.GetUserID(ctx)),
		ItemID:           req.ItemID,
		DepartmentID:     req.DepartmentID,
		Quantity:         req.Quantity,
		UnitCost:         req.UnitCost,
		TotalCost:        types.MulQuantity(req.UnitCost, req.Quantity),
		SupplierID:       req.SupplierID,
		LPONumber:        req.LPONumber,
		DeliveryNumber:   req.DeliveryNumber,
		ExpiryDate:       req.ExpiryDate,
		DepreciationDate: req.DepreciationDate,
		DateAdded:        businessDate(req.DateAdded),
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateStockEntry(ctx, entry); err != nil {
			return fmt.Errorf("create stock entry: %w", err)
		}
		if err := s.balances.Increase(ctx, req.ItemID, req.DepartmentID, req.Quantity); err != nil {
			return err
		}
		if it.Expires || it.Depreciates {
			if err := s.updateBalanceDates(ctx, it, entry); err != nil {
				return err
			}
		}
		return s.audit(ctx, entry, nil)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock received",
		"item_id", req.ItemID,
		"department_id", req.DepartmentID,
		"quantity", req.Quantity,
	)

	return entry, nil
}

// ReceiveEngravedRequest describes an intake of serialized units.
type ReceiveEngravedRequest struct {
	ItemID       id.ID
	DepartmentID id.ID

	// DeclaredQuantity is a caller-supplied cross-check and must equal
	// the number of engraved numbers.
	DeclaredQuantity types.Quantity

	UnitCost types.Money

	SupplierID     *id.ID
	LPONumber      *string
	DeliveryNumber *string

	EngravedNumbers []string

	DateAdded time.Time
}

// ReceiveEngraved records a serialized delivery: one stock entry with
// quantity 1 per engraved number, raising the balance by the count of
// numbers. Nothing is written when validation fails.
func (s *Service) ReceiveEngraved(ctx context.Context, req ReceiveEngravedRequest) ([]*StockEntry, error) {
	if len(req.EngravedNumbers) == 0 {
		return nil, apperror.NewValidation("at least one engraved number is required")
	}
	if req.DeclaredQuantity != types.Quantity(len(req.EngravedNumbers)) {
		return nil, apperror.NewValidation("declared quantity does not match the number of engraved numbers").
			WithDetail("declared", req.DeclaredQuantity).
			WithDetail("numbers", len(req.EngravedNumbers))
	}
	if req.UnitCost.IsNegative() {
		return nil, apperror.NewValidation("unit cost must not be negative")
	}

	seen := make(map[string]struct{}, len(req.EngravedNumbers))
	for _, num := range req.EngravedNumbers {
		if num == "" {
			return nil, apperror.NewValidation("engraved number must not be empty")
		}
		if _, dup := seen[num]; dup {
			return nil, apperror.NewValidation("duplicate engraved number in request").
				WithDetail("engraved_number", num)
		}
		seen[num] = struct{}{}
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !it.IsEngraved() {
		return nil, apperror.NewValidation("item is not engraved").
			WithDetail("item_id", req.ItemID.String())
	}
	if err := s.checkDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}

	createdBy := appctx.GetUserID(ctx)
	dateAdded := businessDate(req.DateAdded)

	entries := make([]*StockEntry, 0, len(req.EngravedNumbers))
	for _, num := range req.EngravedNumbers {
		n := num
		entries = append(entries, &StockEntry{
			LedgerEntry:    entity.NewLedgerEntry(createdBy),
			ItemID:         req.ItemID,
			DepartmentID:   req.DepartmentID,
			Quantity:       1,
			UnitCost:       req.UnitCost,
			TotalCost:      req.UnitCost,
			SupplierID:     req.SupplierID,
			LPONumber:      req.LPONumber,
			DeliveryNumber: req.DeliveryNumber,
			EngravedNumber: &n,
			DateAdded:      dateAdded,
		})
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, num := range req.EngravedNumbers {
			inStock, err := s.repo.EngravedNumberInStock(ctx, req.ItemID, num)
			if err != nil {
				return err
			}
			if inStock {
				return apperror.NewDuplicate("stock entry", "engraved_number", num)
			}
		}

		if err := s.repo.CreateStockEntries(ctx, entries); err != nil {
			return fmt.Errorf("create stock entries: %w", err)
		}
		if err := s.balances.Increase(ctx, req.ItemID, req.DepartmentID, types.Quantity(len(entries))); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := s.audit(ctx, entry, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "engraved stock received",
		"item_id", req.ItemID,
		"department_id", req.DepartmentID,
		"units", len(entries),
	)

	return entries, nil
}

// IssueRequest describes one bulk issuance.
type IssueRequest struct {
	ItemID       id.ID
	DepartmentID id.ID
	EmployeeID   id.ID

	Quantity types.Quantity

	// VoucherNumber is generated when empty.
	VoucherNumber string
}

// Issue records a bulk issuance: verifies availability under a row
// lock, lowers the balance and appends an issuance entry.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*IssueEntry, error) {
	if req.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive")
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if it.IsEngraved() {
		return nil, apperror.NewValidation("engraved items must be issued by serial number").
			WithDetail("item_id", req.ItemID.String())
	}

	emp, err := s.resolveRecipient(ctx, req.EmployeeID, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	voucher, err := s.resolveVoucher(ctx, req.VoucherNumber)
	if err != nil {
		return nil, err
	}

	entry := &IssueEntry{
		LedgerEntry:   entity.NewLedgerEntry(appctx.GetUserID(ctx)),
		VoucherNumber: voucher,
		ItemID:        req.ItemID,
		DepartmentID:  req.DepartmentID,
		EmployeeID:    req.EmployeeID,
		Office:        emp.Office,
		Quantity:      req.Quantity,
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.balances.CheckAndReserve(ctx, req.ItemID, req.DepartmentID, req.Quantity); err != nil {
			return err
		}
		if err := s.balances.Decrease(ctx, req.ItemID, req.DepartmentID, req.Quantity); err != nil {
			return err
		}
		if err := s.repo.CreateIssueEntry(ctx, entry); err != nil {
			return fmt.Errorf("create issue entry: %w", err)
		}
		s.deriveCost(ctx, entry)
		return s.audit(ctx, nil, entry)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock issued",
		"item_id", req.ItemID,
		"department_id", req.DepartmentID,
		"employee_id", req.EmployeeID,
		"quantity", req.Quantity,
		"voucher", voucher,
	)

	return entry, nil
}

// IssueEngravedRequest describes the issuance of one serialized unit.
type IssueEngravedRequest struct {
	ItemID         id.ID
	DepartmentID   id.ID
	EmployeeID     id.ID
	EngravedNumber string

	VoucherNumber string
}

// IssueEngraved issues one serialized unit: the matching un-issued
// stock entry is flagged issued, the balance drops by one and an
// issuance entry carrying the engraved number is appended.
func (s *Service) IssueEngraved(ctx context.Context, req IssueEngravedRequest) (*IssueEntry, error) {
	if req.EngravedNumber == "" {
		return nil, apperror.NewValidation("engraved number is required")
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !it.IsEngraved() {
		return nil, apperror.NewValidation("item is not engraved").
			WithDetail("item_id", req.ItemID.String())
	}

	emp, err := s.resolveRecipient(ctx, req.EmployeeID, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	voucher, err := s.resolveVoucher(ctx, req.VoucherNumber)
	if err != nil {
		return nil, err
	}

	num := req.EngravedNumber
	entry := &IssueEntry{
		LedgerEntry:    entity.NewLedgerEntry(appctx.GetUserID(ctx)),
		VoucherNumber:  voucher,
		ItemID:         req.ItemID,
		DepartmentID:   req.DepartmentID,
		EmployeeID:     req.EmployeeID,
		Office:         emp.Office,
		Quantity:       1,
		EngravedNumber: &num,
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		stockEntry, err := s.repo.FindUnissuedEngraved(ctx, req.ItemID, req.EngravedNumber)
		if err != nil {
			return err
		}

		if _, err := s.balances.CheckAndReserve(ctx, req.ItemID, req.DepartmentID, 1); err != nil {
			return err
		}
		if err := s.repo.MarkIssued(ctx, stockEntry.ID); err != nil {
			return fmt.Errorf("mark issued: %w", err)
		}
		if err := s.balances.Decrease(ctx, req.ItemID, req.DepartmentID, 1); err != nil {
			return err
		}
		if err := s.repo.CreateIssueEntry(ctx, entry); err != nil {
			return fmt.Errorf("create issue entry: %w", err)
		}
		s.deriveCost(ctx, entry)
		return s.audit(ctx, nil, entry)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "engraved unit issued",
		"item_id", req.ItemID,
		"engraved_number", req.EngravedNumber,
		"employee_id", req.EmployeeID,
		"voucher", voucher,
	)

	return entry, nil
}

// --- Queries ---

// ListStockEntries returns intake history.
func (s *Service) ListStockEntries(ctx context.Context, filter StockEntryFilter) ([]*StockEntry, int64, error) {
	return s.repo.ListStockEntries(ctx, filter)
}

// ListIssueEntries returns issuance history with derived costs.
func (s *Service) ListIssueEntries(ctx context.Context, filter IssueEntryFilter) ([]*IssueEntry, int64, error) {
	return s.repo.ListIssueEntries(ctx, filter)
}

// GetStockEntry returns one intake row.
func (s *Service) GetStockEntry(ctx context.Context, entryID id.ID) (*StockEntry, error) {
	return s.repo.GetStockEntry(ctx, entryID)
}

// GetIssueEntry returns one issuance row with derived costs.
func (s *Service) GetIssueEntry(ctx context.Context, entryID id.ID) (*IssueEntry, error) {
	return s.repo.GetIssueEntry(ctx, entryID)
}

// CountUnissuedEngraved counts serialized units still on hand for an
// item. Used to guard item kind changes.
func (s *Service) CountUnissuedEngraved(ctx context.Context, itemID id.ID) (int64, error) {
	return s.repo.CountUnissuedEngraved(ctx, itemID)
}

// HasStockForDepartment reports whether ledger rows reference the
// department. Used to guard department deletion.
func (s *Service) HasStockForDepartment(ctx context.Context, departmentID id.ID) (bool, error) {
	return s.repo.HasStockForDepartment(ctx, departmentID)
}

// --- helpers ---

func (s *Service) checkDepartment(ctx context.Context, departmentID id.ID) error {
	if s.department == nil {
		return nil
	}
	exists, err := s.department(ctx, departmentID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NewNotFound("department", departmentID.String())
	}
	return nil
}

// resolveRecipient loads the employee and verifies they belong to the
// stated department.
func (s *Service) resolveRecipient(ctx context.Context, employeeID, departmentID id.ID) (*employee.Employee, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if emp.DepartmentID != departmentID {
		return nil, apperror.NewValidation("recipient does not belong to the stated department").
			WithDetail("employee_id", employeeID.String()).
			WithDetail("department_id", departmentID.String())
	}
	return emp, nil
}

func (s *Service) resolveVoucher(ctx context.Context, voucher string) (string, error) {
	if voucher != "" {
		return voucher, nil
	}
	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("ISS"), voucherNumeratorOpts, time.Now())
	if err != nil {
		return "", fmt.Errorf("generate voucher number: %w", err)
	}
	return number, nil
}

func (s *Service) checkOptionalDates(it *item.Item, expiry, depreciation *time.Time) error {
	if expiry != nil && !it.Expires {
		return apperror.NewValidation("item does not track expiry dates").
			WithDetail("item_id", it.ID.String())
	}
	if depreciation != nil && !it.Depreciates {
		return apperror.NewValidation("item does not track depreciation dates").
			WithDetail("item_id", it.ID.String())
	}
	return nil
}

func (s *Service) updateBalanceDates(ctx context.Context, it *item.Item, entry *StockEntry) error {
	var expiry, depreciation *time.Time
	if it.Expires {
		expiry = entry.ExpiryDate
	}
	if it.Depreciates {
		depreciation = entry.DepreciationDate
	}
	return s.balances.UpdateDates(ctx, entry.ItemID, entry.DepartmentID, expiry, depreciation)
}

// deriveCost fills the derived cost fields on a freshly created issue
// entry so the caller sees the same values a listing would resolve.
func (s *Service) deriveCost(ctx context.Context, entry *IssueEntry) {
	latest, err := s.repo.GetLatestStockEntry(ctx, entry.ItemID)
	if err != nil || latest == nil {
		return
	}
	entry.UnitCost = latest.UnitCost
	date := latest.DateAdded
	entry.DatePurchased = &date
}

func (s *Service) audit(ctx context.Context, stockEntry *StockEntry, issueEntry *IssueEntry) error {
	if s.auditor == nil {
		return nil
	}
	if stockEntry != nil {
		return s.auditor.RecordReceive(ctx, stockEntry)
	}
	return s.auditor.RecordIssue(ctx, issueEntry)
}

// businessDate normalizes a delivery date, defaulting to today.
func businessDate(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now().UTC()
	}
	return t.Truncate(24 * time.Hour)
}
