package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus mirrors domain.TransactionStatus for storage.
type TransactionStatus string

const (
	StatusDraft     TransactionStatus = "DRAFT"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusLocked    TransactionStatus = "LOCKED"
)

// Transaction is the persistence model for a sale header.
type Transaction struct {
	TransactionID string            `db:"transaction_id"`
	CashierID     string            `db:"cashier_id"`
	Status        TransactionStatus `db:"status"`
	Total         decimal.Decimal   `db:"total"`
	PaymentMethod string            `db:"payment_method"`
	PaymentAmount decimal.Decimal   `db:"payment_amount"`
	ChangeAmount  decimal.Decimal   `db:"change_amount"`
	CompletedAt   *time.Time        `db:"completed_at"`
	AuditFields
}

// TransactionItem is one sale line; unit price is snapshotted at add time.
type TransactionItem struct {
	ItemID        string          `db:"item_id"`
	TransactionID string          `db:"transaction_id"`
	ProductID     string          `db:"product_id"`
	Quantity      int64           `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	Subtotal      decimal.Decimal `db:"subtotal"`
}
