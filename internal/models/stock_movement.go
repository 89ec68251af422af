package models

import "time"

// MovementType mirrors domain.MovementType for storage.
type MovementType string

const (
	MovementIn         MovementType = "IN"
	MovementOut        MovementType = "OUT"
	MovementAdjustment MovementType = "ADJUSTMENT"
	MovementReturn     MovementType = "RETURN"
)

// ReferenceType mirrors domain.ReferenceType for storage.
type ReferenceType string

const (
	ReferencePurchase   ReferenceType = "PURCHASE"
	ReferenceSale       ReferenceType = "SALE"
	ReferenceAdjustment ReferenceType = "ADJUSTMENT"
	ReferenceReturn     ReferenceType = "RETURN"
	ReferenceOpname     ReferenceType = "OPNAME"
)

// StockMovement is an append-only row; there is no update path for it.
type StockMovement struct {
	MovementID    string        `db:"movement_id"`
	ProductID     string        `db:"product_id"`
	MovementType  MovementType  `db:"movement_type"`
	Quantity      int64         `db:"quantity"`
	BeforeQty     int64         `db:"before_qty"`
	AfterQty      int64         `db:"after_qty"`
	ReferenceType ReferenceType `db:"reference_type"`
	ReferenceID   string        `db:"reference_id"`
	Notes         string        `db:"notes"`
	CreatedAt     time.Time     `db:"created_at"`
	CreatedBy     string        `db:"created_by"`
}
