package stockmath

import (
	"fmt"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// SignedQuantity applies the correct sign to a movement quantity based on the
// movement type. This is used in both services and repositories so every
// writer agrees on direction.
//
// IN / RETURN increase stock (+), OUT decreases stock (-). ADJUSTMENT carries
// the sign the caller recorded: positive quantities add, negative subtract.
func SignedQuantity(movementType domain.MovementType, quantity int64) (int64, error) {
	switch movementType {
	case domain.MovementIn, domain.MovementReturn:
		return abs(quantity), nil
	case domain.MovementOut:
		return -abs(quantity), nil
	case domain.MovementAdjustment:
		return quantity, nil
	default:
		return 0, fmt.Errorf("unknown movement type '%s'", movementType)
	}
}

// NextQuantity computes the quantity a product would hold after applying a
// movement, enforcing the non-negative invariant for tracked products.
func NextQuantity(before int64, movementType domain.MovementType, quantity int64, trackStock bool) (int64, error) {
	signed, err := SignedQuantity(movementType, quantity)
	if err != nil {
		return 0, err
	}
	after := before + signed
	if trackStock && after < 0 {
		return 0, fmt.Errorf("%w: %d on hand, movement of %d", apperrors.ErrNegativeStock, before, signed)
	}
	return after, nil
}

// VerifyMovement checks the arithmetic invariant of a written ledger entry:
// AfterQty must equal BeforeQty plus the signed quantity. A mismatch is a
// fatal internal error, never corrected.
func VerifyMovement(m domain.StockMovement) error {
	signed, err := SignedQuantity(m.MovementType, m.Quantity)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInternal, err)
	}
	if m.BeforeQty+signed != m.AfterQty {
		return fmt.Errorf("%w: movement %s after_qty %d != before_qty %d + signed %d",
			apperrors.ErrInternal, m.MovementID, m.AfterQty, m.BeforeQty, signed)
	}
	return nil
}

// ReplaySum folds the signed quantities of a movement sequence. With the
// movements ordered by creation time it reproduces the product's current
// quantity from an opening inventory of zero.
func ReplaySum(movements []domain.StockMovement) (int64, error) {
	var sum int64
	for _, m := range movements {
		signed, err := SignedQuantity(m.MovementType, m.Quantity)
		if err != nil {
			return 0, err
		}
		sum += signed
	}
	return sum, nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
