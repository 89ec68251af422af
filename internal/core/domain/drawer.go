package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DrawerStatus indicates the lifecycle state of a cash drawer shift.
type DrawerStatus string

const (
	DrawerOpen   DrawerStatus = "OPEN"
	DrawerClosed DrawerStatus = "CLOSED"
)

// DrawerEntryType classifies a cash drawer ledger line.
type DrawerEntryType string

const (
	EntryCashIn  DrawerEntryType = "CASH_IN"
	EntryCashOut DrawerEntryType = "CASH_OUT"
)

// DrawerReferenceType names the business event behind a drawer entry.
type DrawerReferenceType string

const (
	DrawerRefSale   DrawerReferenceType = "SALE"
	DrawerRefReturn DrawerReferenceType = "RETURN"
	DrawerRefManual DrawerReferenceType = "MANUAL"
)

// CashDrawer is one cashier shift at the till. CashIn and CashOut are
// running totals kept additive under the drawer's row lock; the closing
// difference is recorded, never corrected.
type CashDrawer struct {
	DrawerID       string          `json:"drawerID"`
	CashierID      string          `json:"cashierID"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CashIn         decimal.Decimal `json:"cashIn"`
	CashOut        decimal.Decimal `json:"cashOut"`
	CountedAmount  decimal.Decimal `json:"countedAmount"`
	Difference     decimal.Decimal `json:"difference"`
	Status         DrawerStatus    `json:"status"`
	Notes          string          `json:"notes"`
	OpenedAt       time.Time       `json:"openedAt"`
	ClosedAt       *time.Time      `json:"closedAt,omitempty"`
}

// ExpectedBalance is the balance the till should physically hold.
func (d CashDrawer) ExpectedBalance() decimal.Decimal {
	return d.OpeningBalance.Add(d.CashIn).Sub(d.CashOut)
}

// DrawerEntry is one immutable line in a drawer's cash ledger.
type DrawerEntry struct {
	EntryID       string              `json:"entryID"`
	DrawerID      string              `json:"drawerID"`
	EntryType     DrawerEntryType     `json:"entryType"`
	Amount        decimal.Decimal     `json:"amount"` // always positive
	ReferenceType DrawerReferenceType `json:"referenceType"`
	ReferenceID   string              `json:"referenceID"`
	Notes         string              `json:"notes"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreatedBy     string              `json:"createdBy"`
}
