package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DrawerStatus mirrors domain.DrawerStatus for storage.
type DrawerStatus string

const (
	DrawerOpen   DrawerStatus = "OPEN"
	DrawerClosed DrawerStatus = "CLOSED"
)

// CashDrawer is the persistence model for one cashier shift at the till.
type CashDrawer struct {
	DrawerID       string          `db:"drawer_id"`
	CashierID      string          `db:"cashier_id"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CashIn         decimal.Decimal `db:"cash_in"`
	CashOut        decimal.Decimal `db:"cash_out"`
	CountedAmount  decimal.Decimal `db:"counted_amount"`
	Difference     decimal.Decimal `db:"difference"`
	Status         DrawerStatus    `db:"status"`
	Notes          string          `db:"notes"`
	OpenedAt       time.Time       `db:"opened_at"`
	ClosedAt       *time.Time      `db:"closed_at"`
}

// DrawerEntry is an append-only cash ledger row; there is no update path.
type DrawerEntry struct {
	EntryID       string          `db:"entry_id"`
	DrawerID      string          `db:"drawer_id"`
	EntryType     string          `db:"entry_type"`
	Amount        decimal.Decimal `db:"amount"`
	ReferenceType string          `db:"reference_type"`
	ReferenceID   string          `db:"reference_id"`
	Notes         string          `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}
