package ledger_repo

import (
	"context"

	"storekeeper/internal/domain/ledger"
	"storekeeper/internal/infrastructure/storage/postgres"
)

// LedgerAuditor adapts the audit service to the ledger's Auditor
// contract.
type LedgerAuditor struct {
	audit *postgres.AuditService
}

// NewLedgerAuditor creates a new ledger auditor.
func NewLedgerAuditor(audit *postgres.AuditService) *LedgerAuditor {
	return &LedgerAuditor{audit: audit}
}

// RecordReceive writes an audit row for an intake entry.
func (a *LedgerAuditor) RecordReceive(ctx context.Context, entry *ledger.StockEntry) error {
	changes := map[string]any{
		"item_id":       entry.ItemID,
		"department_id": entry.DepartmentID,
		"quantity":      entry.Quantity,
		"unit_cost":     entry.UnitCost,
		"total_cost":    entry.TotalCost,
		"date_added":    entry.DateAdded,
	}
	if entry.EngravedNumber != nil {
		changes["engraved_number"] = *entry.EngravedNumber
	}
	return a.audit.LogChange(ctx, "stock_entry", entry.ID, postgres.AuditActionReceive, changes)
}

// RecordIssue writes an audit row for an issuance entry.
func (a *LedgerAuditor) RecordIssue(ctx context.Context, entry *ledger.IssueEntry) error {
	changes := map[string]any{
		"item_id":        entry.ItemID,
		"department_id":  entry.DepartmentID,
		"employee_id":    entry.EmployeeID,
		"quantity":       entry.Quantity,
		"voucher_number": entry.VoucherNumber,
	}
	if entry.EngravedNumber != nil {
		changes["engraved_number"] = *entry.EngravedNumber
	}
	return a.audit.LogChange(ctx, "issue_entry", entry.ID, postgres.AuditActionIssue, changes)
}
