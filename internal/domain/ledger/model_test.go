package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConditionFor(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	daysAgo := func(d int) *time.Time {
		t := now.AddDate(0, 0, -d)
		return &t
	}

	tests := []struct {
		name      string
		dateAdded *time.Time
		want      string
	}{
		{"nil date", nil, ConditionUnknown},
		{"today", daysAgo(0), ConditionNew},
		{"one day short of a year", daysAgo(364), ConditionNew},
		{"exactly one year", daysAgo(365), ConditionWorking},
		{"four years", daysAgo(1460), ConditionWorking},
		{"one day short of five years", daysAgo(1824), ConditionWorking},
		{"exactly five years", daysAgo(1825), ConditionObsolete},
		{"a decade", daysAgo(3650), ConditionObsolete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConditionFor(tt.dateAdded, now))
		})
	}
}

func TestStockEntryCondition(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	entry := &StockEntry{DateAdded: now.AddDate(0, 0, -30)}
	assert.Equal(t, ConditionNew, entry.Condition(now))
}

func TestIssueEntryTotalCost(t *testing.T) {
	entry := &IssueEntry{
		Quantity: 4,
		UnitCost: money("25.50"),
	}
	assert.True(t, entry.TotalCost().Equal(money("102")))
}

func TestIssueEntryConditionWithoutHistory(t *testing.T) {
	entry := &IssueEntry{Quantity: 1}
	assert.Equal(t, ConditionUnknown, entry.Condition(time.Now()))
	assert.True(t, entry.TotalCost().IsZero())
}
