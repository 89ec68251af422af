package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// OpenDrawerRequest starts a cash drawer shift.
type OpenDrawerRequest struct {
	OpeningBalance decimal.Decimal `json:"openingBalance" binding:"required"`
}

// CashEntryRequest records a manual cash in/out against an open drawer.
type CashEntryRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes"`
}

// CloseDrawerRequest ends a shift with the physically counted amount.
type CloseDrawerRequest struct {
	CountedAmount decimal.Decimal `json:"countedAmount" binding:"required"`
	Notes         string          `json:"notes"`
}

// DrawerResponse defines the data returned for a cash drawer.
type DrawerResponse struct {
	DrawerID        string          `json:"drawerID"`
	CashierID       string          `json:"cashierID"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	CashIn          decimal.Decimal `json:"cashIn"`
	CashOut         decimal.Decimal `json:"cashOut"`
	ExpectedBalance decimal.Decimal `json:"expectedBalance"`
	CountedAmount   decimal.Decimal `json:"countedAmount"`
	Difference      decimal.Decimal `json:"difference"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes,omitempty"`
	OpenedAt        time.Time       `json:"openedAt"`
	ClosedAt        *time.Time      `json:"closedAt,omitempty"`
}

// DrawerEntryResponse is one line of a drawer's cash ledger.
type DrawerEntryResponse struct {
	EntryID       string          `json:"entryID"`
	DrawerID      string          `json:"drawerID"`
	EntryType     string          `json:"entryType"`
	Amount        decimal.Decimal `json:"amount"`
	ReferenceType string          `json:"referenceType"`
	ReferenceID   string          `json:"referenceID,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ListDrawerEntriesResponse is a page of entries plus the next cursor.
type ListDrawerEntriesResponse struct {
	Entries   []DrawerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ListDrawersParams holds query parameters for drawer history listings.
type ListDrawersParams struct {
	CashierID *string `form:"cashierID"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListDrawersResponse is a page of drawers plus the next cursor.
type ListDrawersResponse struct {
	Drawers   []DrawerResponse `json:"drawers"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToDrawerResponse converts a domain.CashDrawer to its response DTO.
func ToDrawerResponse(d *domain.CashDrawer) DrawerResponse {
	return DrawerResponse{
		DrawerID:        d.DrawerID,
		CashierID:       d.CashierID,
		OpeningBalance:  d.OpeningBalance,
		CashIn:          d.CashIn,
		CashOut:         d.CashOut,
		ExpectedBalance: d.ExpectedBalance(),
		CountedAmount:   d.CountedAmount,
		Difference:      d.Difference,
		Status:          string(d.Status),
		Notes:           d.Notes,
		OpenedAt:        d.OpenedAt,
		ClosedAt:        d.ClosedAt,
	}
}

// ToDrawerResponses converts a slice of domain drawers.
func ToDrawerResponses(ds []domain.CashDrawer) []DrawerResponse {
	responses := make([]DrawerResponse, len(ds))
	for i := range ds {
		responses[i] = ToDrawerResponse(&ds[i])
	}
	return responses
}

// ToDrawerEntryResponse converts a domain.DrawerEntry to its response DTO.
func ToDrawerEntryResponse(e *domain.DrawerEntry) DrawerEntryResponse {
	return DrawerEntryResponse{
		EntryID:       e.EntryID,
		DrawerID:      e.DrawerID,
		EntryType:     string(e.EntryType),
		Amount:        e.Amount,
		ReferenceType: string(e.ReferenceType),
		ReferenceID:   e.ReferenceID,
		Notes:         e.Notes,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
}

// ToDrawerEntryResponses converts a slice of domain drawer entries.
func ToDrawerEntryResponses(es []domain.DrawerEntry) []DrawerEntryResponse {
	responses := make([]DrawerEntryResponse, len(es))
	for i := range es {
		responses[i] = ToDrawerEntryResponse(&es[i])
	}
	return responses
}
