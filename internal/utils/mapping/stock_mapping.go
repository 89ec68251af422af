package mapping

import (
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/models"
)

// ToModelStockMovement converts a domain.StockMovement to its persistence model.
func ToModelStockMovement(d domain.StockMovement) models.StockMovement {
	return models.StockMovement{
		MovementID:    d.MovementID,
		ProductID:     d.ProductID,
		MovementType:  models.MovementType(d.MovementType),
		Quantity:      d.Quantity,
		BeforeQty:     d.BeforeQty,
		AfterQty:      d.AfterQty,
		ReferenceType: models.ReferenceType(d.ReferenceType),
		ReferenceID:   d.ReferenceID,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainStockMovement converts a persistence model back to domain.StockMovement.
func ToDomainStockMovement(m models.StockMovement) domain.StockMovement {
	return domain.StockMovement{
		MovementID:    m.MovementID,
		ProductID:     m.ProductID,
		MovementType:  domain.MovementType(m.MovementType),
		Quantity:      m.Quantity,
		BeforeQty:     m.BeforeQty,
		AfterQty:      m.AfterQty,
		ReferenceType: domain.ReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainStockMovementSlice converts a slice of persistence rows.
func ToDomainStockMovementSlice(ms []models.StockMovement) []domain.StockMovement {
	ds := make([]domain.StockMovement, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStockMovement(m)
	}
	return ds
}
