package dto

import (
	"time"

	"storekeeper/internal/domain/reports"
)

// Report responses reuse the domain report types directly; they are
// plain aggregates with JSON tags and no behavior worth hiding.

// ReportRangeRequest carries the common period bounds.
type ReportRangeRequest struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// Range converts the request to a domain range.
func (r *ReportRangeRequest) Range() reports.DateRange {
	return reports.DateRange{From: r.From, To: r.To}
}

// InflowReportRequest bounds the intake report.
type InflowReportRequest struct {
	ReportRangeRequest
	DepartmentID *string `form:"departmentId"`
	CategoryID   *string `form:"categoryId"`
	SupplierID   *string `form:"supplierId"`
	Bucket       string  `form:"bucket"`
}

// ToFilter converts the request to a domain filter.
func (r *InflowReportRequest) ToFilter() (reports.InflowFilter, error) {
	departmentID, err := parseOptionalID(r.DepartmentID, "departmentId")
	if err != nil {
		return reports.InflowFilter{}, err
	}
	categoryID, err := parseOptionalID(r.CategoryID, "categoryId")
	if err != nil {
		return reports.InflowFilter{}, err
	}
	supplierID, err := parseOptionalID(r.SupplierID, "supplierId")
	if err != nil {
		return reports.InflowFilter{}, err
	}

	return reports.InflowFilter{
		DateRange:    r.Range(),
		DepartmentID: departmentID,
		CategoryID:   categoryID,
		SupplierID:   supplierID,
		Bucket:       r.Bucket,
	}, nil
}

// OutflowReportRequest bounds the issuance report.
type OutflowReportRequest struct {
	ReportRangeRequest
	DepartmentID *string `form:"departmentId"`
	ItemID       *string `form:"itemId"`
	Bucket       string  `form:"bucket"`
}

// ToFilter converts the request to a domain filter.
func (r *OutflowReportRequest) ToFilter() (reports.OutflowFilter, error) {
	departmentID, err := parseOptionalID(r.DepartmentID, "departmentId")
	if err != nil {
		return reports.OutflowFilter{}, err
	}
	itemID, err := parseOptionalID(r.ItemID, "itemId")
	if err != nil {
		return reports.OutflowFilter{}, err
	}

	return reports.OutflowFilter{
		DateRange:    r.Range(),
		DepartmentID: departmentID,
		ItemID:       itemID,
		Bucket:       r.Bucket,
	}, nil
}

// CostReportRequest bounds the cost report.
type CostReportRequest struct {
	ReportRangeRequest
	CategoryID *string `form:"categoryId"`
}

// ToFilter converts the request to a domain filter.
func (r *CostReportRequest) ToFilter() (reports.CostFilter, error) {
	categoryID, err := parseOptionalID(r.CategoryID, "categoryId")
	if err != nil {
		return reports.CostFilter{}, err
	}

	return reports.CostFilter{
		DateRange:  r.Range(),
		CategoryID: categoryID,
	}, nil
}

// SummaryReportRequest bounds the inventory summary.
type SummaryReportRequest struct {
	DepartmentID *string `form:"departmentId"`
	CategoryID   *string `form:"categoryId"`
	ExcludeZero  bool    `form:"excludeZero"`
	Limit        int     `form:"limit"`
	Offset       int     `form:"offset"`
}

// ToFilter converts the request to a domain filter.
func (r *SummaryReportRequest) ToFilter() (reports.SummaryFilter, error) {
	departmentID, err := parseOptionalID(r.DepartmentID, "departmentId")
	if err != nil {
		return reports.SummaryFilter{}, err
	}
	categoryID, err := parseOptionalID(r.CategoryID, "categoryId")
	if err != nil {
		return reports.SummaryFilter{}, err
	}

	return reports.SummaryFilter{
		DepartmentID: departmentID,
		CategoryID:   categoryID,
		ExcludeZero:  r.ExcludeZero,
		Limit:        r.Limit,
		Offset:       r.Offset,
	}, nil
}

// CombinedReportRequest bounds the combined inflow/outflow series.
type CombinedReportRequest struct {
	ReportRangeRequest
	Bucket string `form:"bucket"`
}

// ReferenceReportRequest selects the reference drill-down kind.
type ReferenceReportRequest struct {
	ReportRangeRequest
	Kind string `form:"kind"`
}
