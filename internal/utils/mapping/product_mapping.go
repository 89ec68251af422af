package mapping

import (
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/models"
)

// ToModelProduct converts a domain.Product to its persistence model.
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:   d.ProductID,
		SKU:         d.SKU,
		Name:        d.Name,
		Price:       d.Price,
		Quantity:    d.Quantity,
		MinStock:    d.MinStock,
		TrackStock:  d.TrackStock,
		IsActive:    d.IsActive,
		AuditFields: toModelAudit(d.AuditFields),
	}
}

// ToDomainProduct converts a persistence model back to domain.Product.
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:   m.ProductID,
		SKU:         m.SKU,
		Name:        m.Name,
		Price:       m.Price,
		Quantity:    m.Quantity,
		MinStock:    m.MinStock,
		TrackStock:  m.TrackStock,
		IsActive:    m.IsActive,
		AuditFields: toDomainAudit(m.AuditFields),
	}
}
