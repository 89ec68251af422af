package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// ReturnItemRequest requests the return of one sold line (or part of it).
type ReturnItemRequest struct {
	ProductID string `json:"productID" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
}

// CreateReturnRequest creates a compensating return against a completed
// transaction.
type CreateReturnRequest struct {
	Items []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes string              `json:"notes"`
}

// ReturnItemResponse is one returned line in API responses.
type ReturnItemResponse struct {
	ProductID string          `json:"productID"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// ReturnResponse defines the data returned for a return record.
type ReturnResponse struct {
	ReturnID      string               `json:"returnID"`
	TransactionID string               `json:"transactionID"`
	Items         []ReturnItemResponse `json:"items,omitempty"`
	RefundAmount  decimal.Decimal      `json:"refundAmount"`
	RefundMethod  string               `json:"refundMethod"`
	Notes         string               `json:"notes,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
}

// ToReturnResponse converts a domain.Return (with any loaded items) to its
// response DTO.
func ToReturnResponse(r *domain.Return) ReturnResponse {
	resp := ReturnResponse{
		ReturnID:      r.ReturnID,
		TransactionID: r.TransactionID,
		RefundAmount:  r.RefundAmount,
		RefundMethod:  string(r.RefundMethod),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		CreatedBy:     r.CreatedBy,
	}
	if len(r.Items) > 0 {
		resp.Items = make([]ReturnItemResponse, len(r.Items))
		for i, it := range r.Items {
			resp.Items[i] = ReturnItemResponse{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Subtotal:  it.Subtotal,
			}
		}
	}
	return resp
}

// ToReturnResponses converts a slice of domain returns.
func ToReturnResponses(rs []domain.Return) []ReturnResponse {
	responses := make([]ReturnResponse, len(rs))
	for i := range rs {
		responses[i] = ToReturnResponse(&rs[i])
	}
	return responses
}
