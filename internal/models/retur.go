package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Return is the persistence model for a compensating return record.
type Return struct {
	ReturnID      string          `db:"return_id"`
	TransactionID string          `db:"transaction_id"`
	RefundAmount  decimal.Decimal `db:"refund_amount"`
	RefundMethod  string          `db:"refund_method"`
	Notes         string          `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}

// ReturnItem is one returned line.
type ReturnItem struct {
	ReturnItemID string          `db:"return_item_id"`
	ReturnID     string          `db:"return_id"`
	ProductID    string          `db:"product_id"`
	Quantity     int64           `db:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	Subtotal     decimal.Decimal `db:"subtotal"`
}
