package mapping

import (
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/models"
)

// ToModelTransaction converts a domain.Transaction header to its persistence model.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		CashierID:     d.CashierID,
		Status:        models.TransactionStatus(d.Status),
		Total:         d.Total,
		PaymentMethod: string(d.PaymentMethod),
		PaymentAmount: d.PaymentAmount,
		ChangeAmount:  d.ChangeAmount,
		CompletedAt:   d.CompletedAt,
		AuditFields:   toModelAudit(d.AuditFields),
	}
}

// ToDomainTransaction converts a persistence model back to domain.Transaction.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		CashierID:     m.CashierID,
		Status:        domain.TransactionStatus(m.Status),
		Total:         m.Total,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		PaymentAmount: m.PaymentAmount,
		ChangeAmount:  m.ChangeAmount,
		CompletedAt:   m.CompletedAt,
		AuditFields:   toDomainAudit(m.AuditFields),
	}
}

// ToModelTransactionItem converts a sale line to its persistence model.
func ToModelTransactionItem(d domain.TransactionItem) models.TransactionItem {
	return models.TransactionItem{
		ItemID:        d.ItemID,
		TransactionID: d.TransactionID,
		ProductID:     d.ProductID,
		Quantity:      d.Quantity,
		UnitPrice:     d.UnitPrice,
		Subtotal:      d.Subtotal,
	}
}

// ToDomainTransactionItem converts a persistence row back to a sale line.
func ToDomainTransactionItem(m models.TransactionItem) domain.TransactionItem {
	return domain.TransactionItem{
		ItemID:        m.ItemID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		Subtotal:      m.Subtotal,
	}
}

// ToDomainTransactionItemSlice converts a slice of persistence rows.
func ToDomainTransactionItemSlice(ms []models.TransactionItem) []domain.TransactionItem {
	ds := make([]domain.TransactionItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionItem(m)
	}
	return ds
}
