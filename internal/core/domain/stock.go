package domain

import "time"

// MovementType classifies the direction of a stock movement.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
)

// ReferenceType names the business event that produced a stock movement.
type ReferenceType string

const (
	ReferencePurchase   ReferenceType = "PURCHASE"
	ReferenceSale       ReferenceType = "SALE"
	ReferenceAdjustment ReferenceType = "ADJUSTMENT"
	ReferenceReturn     ReferenceType = "RETURN"
	ReferenceOpname     ReferenceType = "OPNAME"
)

// StockMovement is one immutable entry in the stock ledger. Corrections are
// new entries, never edits. BeforeQty and AfterQty are recorded at write
// time under the product's row lock and are never recomputed.
type StockMovement struct {
	MovementID    string        `json:"movementID"`
	ProductID     string        `json:"productID"`
	MovementType  MovementType  `json:"movementType"`
	Quantity      int64         `json:"quantity"` // always positive; direction comes from MovementType
	BeforeQty     int64         `json:"beforeQty"`
	AfterQty      int64         `json:"afterQty"`
	ReferenceType ReferenceType `json:"referenceType"`
	ReferenceID   string        `json:"referenceID"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"createdAt"`
	CreatedBy     string        `json:"createdBy"`
}

// MovementFilter narrows ListMovements queries.
type MovementFilter struct {
	MovementType  *MovementType
	ReferenceType *ReferenceType
}
