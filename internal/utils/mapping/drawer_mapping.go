package mapping

import (
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/models"
)

// ToModelCashDrawer converts a domain.CashDrawer to its persistence model.
func ToModelCashDrawer(d domain.CashDrawer) models.CashDrawer {
	return models.CashDrawer{
		DrawerID:       d.DrawerID,
		CashierID:      d.CashierID,
		OpeningBalance: d.OpeningBalance,
		CashIn:         d.CashIn,
		CashOut:        d.CashOut,
		CountedAmount:  d.CountedAmount,
		Difference:     d.Difference,
		Status:         models.DrawerStatus(d.Status),
		Notes:          d.Notes,
		OpenedAt:       d.OpenedAt,
		ClosedAt:       d.ClosedAt,
	}
}

// ToDomainCashDrawer converts a persistence model back to domain.CashDrawer.
func ToDomainCashDrawer(m models.CashDrawer) domain.CashDrawer {
	return domain.CashDrawer{
		DrawerID:       m.DrawerID,
		CashierID:      m.CashierID,
		OpeningBalance: m.OpeningBalance,
		CashIn:         m.CashIn,
		CashOut:        m.CashOut,
		CountedAmount:  m.CountedAmount,
		Difference:     m.Difference,
		Status:         domain.DrawerStatus(m.Status),
		Notes:          m.Notes,
		OpenedAt:       m.OpenedAt,
		ClosedAt:       m.ClosedAt,
	}
}

// ToDomainDrawerEntry converts a persistence row back to domain.DrawerEntry.
func ToDomainDrawerEntry(m models.DrawerEntry) domain.DrawerEntry {
	return domain.DrawerEntry{
		EntryID:       m.EntryID,
		DrawerID:      m.DrawerID,
		EntryType:     domain.DrawerEntryType(m.EntryType),
		Amount:        m.Amount,
		ReferenceType: domain.DrawerReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
	}
}

// ToDomainDrawerEntrySlice converts a slice of persistence rows.
func ToDomainDrawerEntrySlice(ms []models.DrawerEntry) []domain.DrawerEntry {
	ds := make([]domain.DrawerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDrawerEntry(m)
	}
	return ds
}
