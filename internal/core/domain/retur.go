package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Return is a compensating record against a completed (or locked) sale. It
// never mutates the original transaction.
type Return struct {
	ReturnID      string          `json:"returnID"`
	TransactionID string          `json:"transactionID"`
	Items         []ReturnItem    `json:"items,omitempty"`
	RefundAmount  decimal.Decimal `json:"refundAmount"`
	RefundMethod  PaymentMethod   `json:"refundMethod"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// ReturnItem is one returned line. UnitPrice mirrors the originally sold
// unit price for that product.
type ReturnItem struct {
	ReturnItemID string          `json:"returnItemID"`
	ReturnID     string          `json:"returnID"`
	ProductID    string          `json:"productID"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}
