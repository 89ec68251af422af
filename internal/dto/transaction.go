package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// UpsertItemRequest adds or updates one line of a draft transaction.
// Quantity zero removes the line.
type UpsertItemRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"gte=0"`
}

// CompleteTransactionRequest finalizes a draft sale.
type CompleteTransactionRequest struct {
	PaymentMethod string          `json:"paymentMethod" binding:"required,oneof=CASH CARD QRIS"`
	PaymentAmount decimal.Decimal `json:"paymentAmount" binding:"required"`
}

// TransactionItemResponse is one sale line in API responses.
type TransactionItemResponse struct {
	ProductID string          `json:"productID"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string                    `json:"transactionID"`
	CashierID     string                    `json:"cashierID"`
	Status        string                    `json:"status"`
	Items         []TransactionItemResponse `json:"items,omitempty"`
	Total         decimal.Decimal           `json:"total"`
	PaymentMethod string                    `json:"paymentMethod,omitempty"`
	PaymentAmount decimal.Decimal           `json:"paymentAmount"`
	ChangeAmount  decimal.Decimal           `json:"changeAmount"`
	CompletedAt   *time.Time                `json:"completedAt,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

// ListTransactionsParams holds query parameters for transaction listings.
type ListTransactionsParams struct {
	CashierID *string `form:"cashierID"`
	Status    *string `form:"status"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the next cursor.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionItemResponse converts one domain sale line.
func ToTransactionItemResponse(it domain.TransactionItem) TransactionItemResponse {
	return TransactionItemResponse{
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
		UnitPrice: it.UnitPrice,
		Subtotal:  it.Subtotal,
	}
}

// ToTransactionResponse converts a domain.Transaction (with any loaded
// items) to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: t.TransactionID,
		CashierID:     t.CashierID,
		Status:        string(t.Status),
		Total:         t.Total,
		PaymentMethod: string(t.PaymentMethod),
		PaymentAmount: t.PaymentAmount,
		ChangeAmount:  t.ChangeAmount,
		CompletedAt:   t.CompletedAt,
		CreatedAt:     t.CreatedAt,
	}
	if len(t.Items) > 0 {
		resp.Items = make([]TransactionItemResponse, len(t.Items))
		for i, it := range t.Items {
			resp.Items[i] = ToTransactionItemResponse(it)
		}
	}
	return resp
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(ts))
	for i := range ts {
		responses[i] = ToTransactionResponse(&ts[i])
	}
	return responses
}
