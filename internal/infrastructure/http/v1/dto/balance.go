package dto

import (
	"time"

	"storekeeper/internal/domain/registers/balance"
)

// BalanceResponse represents an on-hand balance in API responses.
type BalanceResponse struct {
	ItemID       string `json:"itemId"`
	DepartmentID string `json:"departmentId"`
	Quantity     int64  `json:"quantity"`

	ExpiryDate       *time.Time `json:"expiryDate,omitempty"`
	DepreciationDate *time.Time `json:"depreciationDate,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// FromBalance converts entity to response DTO.
func FromBalance(b balance.Balance) *BalanceResponse {
	return &BalanceResponse{
		ItemID:           b.ItemID.String(),
		DepartmentID:     b.DepartmentID.String(),
		Quantity:         b.Quantity,
		ExpiryDate:       b.ExpiryDate,
		DepreciationDate: b.DepreciationDate,
		UpdatedAt:        b.UpdatedAt,
	}
}

// FromBalances converts a slice of balances.
func FromBalances(balances []balance.Balance) []*BalanceResponse {
	out := make([]*BalanceResponse, len(balances))
	for i, b := range balances {
		out[i] = FromBalance(b)
	}
	return out
}

// ItemAvailabilityResponse reports total and per-department quantities
// for one item.
type ItemAvailabilityResponse struct {
	ItemID   string             `json:"itemId"`
	Total    int64              `json:"total"`
	Balances []*BalanceResponse `json:"balances"`
}
