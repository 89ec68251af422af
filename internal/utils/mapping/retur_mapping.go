package mapping

import (
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/models"
)

// ToModelReturn converts a domain.Return header to its persistence model.
func ToModelReturn(d domain.Return) models.Return {
	return models.Return{
		ReturnID:      d.ReturnID,
		TransactionID: d.TransactionID,
		RefundAmount:  d.RefundAmount,
		RefundMethod:  string(d.RefundMethod),
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
	}
}

// ToDomainReturn converts a persistence model back to domain.Return.
func ToDomainReturn(m models.Return) domain.Return {
	return domain.Return{
		ReturnID:      m.ReturnID,
		TransactionID: m.TransactionID,
		RefundAmount:  m.RefundAmount,
		RefundMethod:  domain.PaymentMethod(m.RefundMethod),
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainReturnItem converts a persistence row back to domain.ReturnItem.
func ToDomainReturnItem(m models.ReturnItem) domain.ReturnItem {
	return domain.ReturnItem{
		ReturnItemID: m.ReturnItemID,
		ReturnID:     m.ReturnID,
		ProductID:    m.ProductID,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		Subtotal:     m.Subtotal,
	}
}

// ToDomainReturnItemSlice converts a slice of persistence rows.
func ToDomainReturnItemSlice(ms []models.ReturnItem) []domain.ReturnItem {
	ds := make([]domain.ReturnItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReturnItem(m)
	}
	return ds
}
