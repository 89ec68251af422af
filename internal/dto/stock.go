package dto

import (
	"time"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// RecordMovementRequest appends one entry to the stock ledger.
type RecordMovementRequest struct {
	ProductID     string `json:"productID" binding:"required"`
	MovementType  string `json:"movementType" binding:"required,oneof=IN OUT ADJUSTMENT RETURN"`
	Quantity      int64  `json:"quantity" binding:"required"`
	ReferenceType string `json:"referenceType" binding:"required,oneof=PURCHASE SALE ADJUSTMENT RETURN OPNAME"`
	ReferenceID   string `json:"referenceID"`
	Notes         string `json:"notes"`
}

// OpnameRequest reconciles a physical stock count against the ledger.
type OpnameRequest struct {
	ProductID  string `json:"productID" binding:"required"`
	CountedQty int64  `json:"countedQty" binding:"gte=0"`
	Notes      string `json:"notes"`
}

// MovementResponse defines the data returned for a stock ledger entry.
type MovementResponse struct {
	MovementID    string    `json:"movementID"`
	ProductID     string    `json:"productID"`
	MovementType  string    `json:"movementType"`
	Quantity      int64     `json:"quantity"`
	BeforeQty     int64     `json:"beforeQty"`
	AfterQty      int64     `json:"afterQty"`
	ReferenceType string    `json:"referenceType"`
	ReferenceID   string    `json:"referenceID,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// ListMovementsParams holds query parameters for ledger listings.
type ListMovementsParams struct {
	MovementType  *string `form:"movementType"`
	ReferenceType *string `form:"referenceType"`
	Limit         int     `form:"limit"`
	NextToken     *string `form:"nextToken"`
}

// ListMovementsResponse is a page of ledger entries plus the next cursor.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToMovementResponse converts a domain.StockMovement to its response DTO.
func ToMovementResponse(m *domain.StockMovement) MovementResponse {
	return MovementResponse{
		MovementID:    m.MovementID,
		ProductID:     m.ProductID,
		MovementType:  string(m.MovementType),
		Quantity:      m.Quantity,
		BeforeQty:     m.BeforeQty,
		AfterQty:      m.AfterQty,
		ReferenceType: string(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToMovementResponses converts a slice of domain movements.
func ToMovementResponses(ms []domain.StockMovement) []MovementResponse {
	responses := make([]MovementResponse, len(ms))
	for i := range ms {
		responses[i] = ToMovementResponse(&ms[i])
	}
	return responses
}
