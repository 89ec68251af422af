package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus indicates the lifecycle state of a sale.
type TransactionStatus string

const (
	// StatusDraft is the initial, mutable state owned by one cashier.
	StatusDraft TransactionStatus = "DRAFT"
	// StatusCompleted is reached by a successful payment; content immutable.
	StatusCompleted TransactionStatus = "COMPLETED"
	// StatusLocked is terminal, reached explicitly or by the stale-draft sweeper.
	StatusLocked TransactionStatus = "LOCKED"
)

// PaymentMethod is how a completed sale was paid.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
	PaymentQRIS PaymentMethod = "QRIS"
)

// Transaction represents a single sale and its line items.
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	CashierID     string            `json:"cashierID"`
	Status        TransactionStatus `json:"status"`
	Items         []TransactionItem `json:"items,omitempty"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod PaymentMethod     `json:"paymentMethod,omitempty"`
	PaymentAmount decimal.Decimal   `json:"paymentAmount"`
	ChangeAmount  decimal.Decimal   `json:"changeAmount"`
	CompletedAt   *time.Time        `json:"completedAt,omitempty"`
	AuditFields
}

// TransactionItem is one line of a sale. UnitPrice is snapshotted from the
// product at the time the line is added.
type TransactionItem struct {
	ItemID        string          `json:"itemID"`
	TransactionID string          `json:"transactionID"`
	ProductID     string          `json:"productID"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// IsTerminal reports whether the status admits no further content edits.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusLocked
}
