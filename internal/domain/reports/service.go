package reports

import (
	"context"
	"fmt"
	"time"

	"storekeeper/internal/core/apperror"
	"storekeeper/internal/domain/ledger"
)

const (
	topItemsLimit       = 10
	recentMovementLimit = 10
)

// Service provides report generation operations.
type Service struct {
	repo Repository
}

// NewService creates a new reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetDashboard assembles the landing page report: headline totals,
// monthly inflow and outflow series and the most-issued items.
func (s *Service) GetDashboard(ctx context.Context) (*DashboardReport, error) {
	totals, err := s.repo.GetDashboardTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard totals: %w", err)
	}

	// Last 12 months.
	from := time.Now().AddDate(-1, 0, 0)
	rng := DateRange{From: &from}

	inflow, err := s.repo.GetInflowSeries(ctx, InflowFilter{DateRange: rng, Bucket: BucketMonth})
	if err != nil {
		return nil, fmt.Errorf("inflow series: %w", err)
	}

	outflow, err := s.repo.GetOutflowSeries(ctx, OutflowFilter{DateRange: rng, Bucket: BucketMonth})
	if err != nil {
		return nil, fmt.Errorf("outflow series: %w", err)
	}

	top, err := s.repo.GetTopIssuedItems(ctx, topItemsLimit)
	if err != nil {
		return nil, fmt.Errorf("top issued items: %w", err)
	}

	recent, err := s.repo.GetRecentMovements(ctx, recentMovementLimit)
	if err != nil {
		return nil, fmt.Errorf("recent movements: %w", err)
	}

	return &DashboardReport{
		Totals:          *totals,
		MonthlyInflow:   inflow,
		MonthlyOutflow:  outflow,
		TopIssuedItems:  top,
		TurnoverRate:    share(float64(totals.IssuedQuantity), float64(totals.OnHandQuantity)),
		RecentMovements: recent,
	}, nil
}

// GetInflow summarizes deliveries per item for a period.
func (s *Service) GetInflow(ctx context.Context, filter InflowFilter) (*InflowReport, error) {
	if err := validateRange(filter.DateRange); err != nil {
		return nil, err
	}
	filter.Bucket = normalizeBucket(filter.Bucket)

	rows, err := s.repo.GetInflowRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("inflow rows: %w", err)
	}

	series, err := s.repo.GetInflowSeries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("inflow series: %w", err)
	}

	report := &InflowReport{Rows: rows, Series: series}
	for _, row := range rows {
		report.TotalQuantity += row.Quantity
		report.TotalCost += row.TotalCost
	}
	for i := range report.Rows {
		report.Rows[i].Share = share(report.Rows[i].TotalCost, report.TotalCost)
	}
	return report, nil
}

// GetOutflow summarizes issuances per department for a period.
func (s *Service) GetOutflow(ctx context.Context, filter OutflowFilter) (*OutflowReport, error) {
	if err := validateRange(filter.DateRange); err != nil {
		return nil, err
	}
	filter.Bucket = normalizeBucket(filter.Bucket)

	rows, err := s.repo.GetOutflowRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("outflow rows: %w", err)
	}

	series, err := s.repo.GetOutflowSeries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("outflow series: %w", err)
	}

	report := &OutflowReport{Rows: rows, Series: series}
	for _, row := range rows {
		report.TotalQuantity += row.Quantity
		report.TotalValue += row.TotalValue
	}
	for i := range report.Rows {
		report.Rows[i].Share = share(report.Rows[i].TotalValue, report.TotalValue)
	}
	return report, nil
}

// GetCost summarizes acquisition cost per item.
func (s *Service) GetCost(ctx context.Context, filter CostFilter) (*CostReport, error) {
	if err := validateRange(filter.DateRange); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetCostRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("cost rows: %w", err)
	}

	report := &CostReport{Rows: rows}
	for _, row := range rows {
		report.TotalCost += row.TotalCost
	}
	for i := range report.Rows {
		report.Rows[i].Share = share(report.Rows[i].TotalCost, report.TotalCost)
	}
	return report, nil
}

// GetDepartments breaks holdings and issuance down by department.
func (s *Service) GetDepartments(ctx context.Context, rng DateRange) (*DepartmentReport, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetDepartmentRows(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("department rows: %w", err)
	}

	report := &DepartmentReport{Rows: rows}
	for _, row := range rows {
		report.TotalOnHand += row.OnHandQuantity
		report.TotalIssuedValue += row.IssuedValue
	}
	for i := range report.Rows {
		report.Rows[i].Share = share(report.Rows[i].IssuedValue, report.TotalIssuedValue)
	}
	return report, nil
}

// GetSummary returns the paginated inventory summary with derived
// condition bands.
func (s *Service) GetSummary(ctx context.Context, filter SummaryFilter) (*SummaryReport, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}

	rows, total, err := s.repo.GetSummaryRows(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("summary rows: %w", err)
	}

	now := time.Now()
	report := &SummaryReport{Rows: rows, TotalCount: total}
	for i := range report.Rows {
		report.Rows[i].Condition = ledger.ConditionFor(report.Rows[i].DatePurchased, now)
		report.TotalQuantity += report.Rows[i].OnHand
		report.TotalValue += report.Rows[i].StockValue
	}
	return report, nil
}

// GetReferences lists all reference numbers of one kind (issue
// vouchers, purchase orders or delivery notes) with per-reference
// totals.
func (s *Service) GetReferences(ctx context.Context, kind string, rng DateRange) (*ReferenceReport, error) {
	switch kind {
	case ReferenceVoucher, ReferenceLPO, ReferenceDelivery:
	default:
		return nil, apperror.NewValidation("unknown reference kind").
			WithDetail("kind", kind)
	}
	if err := validateRange(rng); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetReferenceRows(ctx, kind, rng)
	if err != nil {
		return nil, fmt.Errorf("reference rows: %w", err)
	}

	report := &ReferenceReport{Kind: kind, Rows: rows}
	for _, row := range rows {
		report.TotalQuantity += row.Quantity
		report.TotalValue += row.TotalValue
	}
	return report, nil
}

// GetRemaining pairs each delivery with the quantity of its item still
// on hand in the receiving department.
func (s *Service) GetRemaining(ctx context.Context, rng DateRange) (*RemainingReport, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}

	rows, err := s.repo.GetRemainingRows(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("remaining rows: %w", err)
	}

	report := &RemainingReport{Rows: rows}
	for _, row := range rows {
		report.TotalReceived += row.Received
		report.TotalRemaining += row.Remaining
	}
	return report, nil
}

// GetCombined merges inflow and outflow series into one payload.
func (s *Service) GetCombined(ctx context.Context, rng DateRange, bucket string) (*CombinedReport, error) {
	if err := validateRange(rng); err != nil {
		return nil, err
	}
	bucket = normalizeBucket(bucket)

	inflow, err := s.repo.GetInflowSeries(ctx, InflowFilter{DateRange: rng, Bucket: bucket})
	if err != nil {
		return nil, fmt.Errorf("inflow series: %w", err)
	}

	outflow, err := s.repo.GetOutflowSeries(ctx, OutflowFilter{DateRange: rng, Bucket: bucket})
	if err != nil {
		return nil, fmt.Errorf("outflow series: %w", err)
	}

	return mergeSeries(inflow, outflow), nil
}

// mergeSeries zips two bucketed series on their period labels.
func mergeSeries(inflow, outflow []TimeBucket) *CombinedReport {
	byPeriod := make(map[string]*CombinedBucket)
	order := make([]string, 0, len(inflow)+len(outflow))

	bucketFor := func(period string) *CombinedBucket {
		if b, ok := byPeriod[period]; ok {
			return b
		}
		b := &CombinedBucket{Period: period}
		byPeriod[period] = b
		order = append(order, period)
		return b
	}

	for _, tb := range inflow {
		b := bucketFor(tb.Period)
		b.InflowQuantity = tb.Quantity
		b.InflowValue = tb.Value
	}
	for _, tb := range outflow {
		b := bucketFor(tb.Period)
		b.OutflowQuantity = tb.Quantity
		b.OutflowValue = tb.Value
	}

	report := &CombinedReport{Buckets: make([]CombinedBucket, 0, len(order))}
	for _, period := range order {
		b := byPeriod[period]
		b.NetQuantity = b.InflowQuantity - b.OutflowQuantity
		report.Buckets = append(report.Buckets, *b)
		report.TotalInflowValue += b.InflowValue
		report.TotalOutflowValue += b.OutflowValue
	}
	return report
}

// share is the guarded percentage: zero whole yields zero, never an
// error.
func share(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

func normalizeBucket(bucket string) string {
	if bucket == BucketDay {
		return BucketDay
	}
	return BucketMonth
}

func validateRange(rng DateRange) error {
	if rng.From != nil && rng.To != nil && rng.From.After(*rng.To) {
		return apperror.NewValidation("from date must not be after to date")
	}
	return nil
}
