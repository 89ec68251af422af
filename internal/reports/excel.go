package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// BuildStockCard renders a product's movement history as a spreadsheet: one
// row per ledger entry, oldest first, with the running before/after chain.
func BuildStockCard(product domain.Product, movements []domain.StockMovement) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := [][]interface{}{
		{"Product", product.Name},
		{"SKU", product.SKU},
		{"Current quantity", product.Quantity},
		{},
		{"Date", "Type", "Reference", "Reference ID", "Quantity", "Before", "After", "Notes", "Recorded by"},
	}
	for i, row := range header {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write stock card header: %w", err)
		}
	}

	// Movements arrive newest first from the ledger; render oldest first so
	// the before/after chain reads top to bottom.
	for i := len(movements) - 1; i >= 0; i-- {
		m := movements[i]
		rowIdx := len(header) + (len(movements) - i)
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		row := []interface{}{
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			string(m.MovementType),
			string(m.ReferenceType),
			m.ReferenceID,
			m.Quantity,
			m.BeforeQty,
			m.AfterQty,
			m.Notes,
			m.CreatedBy,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write stock card row: %w", err)
		}
	}

	return f, nil
}

// BuildDrawerReconciliation renders one drawer shift: its entries plus the
// expected/counted/difference summary.
func BuildDrawerReconciliation(drawer domain.CashDrawer, entries []domain.DrawerEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	closedAt := ""
	if drawer.ClosedAt != nil {
		closedAt = drawer.ClosedAt.Format("2006-01-02 15:04:05")
	}

	header := [][]interface{}{
		{"Drawer", drawer.DrawerID},
		{"Cashier", drawer.CashierID},
		{"Status", string(drawer.Status)},
		{"Opened", drawer.OpenedAt.Format("2006-01-02 15:04:05")},
		{"Closed", closedAt},
		{"Opening balance", drawer.OpeningBalance.String()},
		{"Cash in", drawer.CashIn.String()},
		{"Cash out", drawer.CashOut.String()},
		{"Expected balance", drawer.ExpectedBalance().String()},
		{"Counted amount", drawer.CountedAmount.String()},
		{"Difference", drawer.Difference.String()},
		{},
		{"Date", "Type", "Amount", "Reference", "Reference ID", "Notes", "Recorded by"},
	}
	for i, row := range header {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write drawer report header: %w", err)
		}
	}

	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		rowIdx := len(header) + (len(entries) - i)
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		row := []interface{}{
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			string(e.EntryType),
			e.Amount.String(),
			string(e.ReferenceType),
			e.ReferenceID,
			e.Notes,
			e.CreatedBy,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write drawer report row: %w", err)
		}
	}

	return f, nil
}
