package services

import "context"

// ReportSvcFacade renders ledger data as downloadable spreadsheets.
type ReportSvcFacade interface {
	// BuildStockCardXLSX renders one product's full movement history.
	BuildStockCardXLSX(ctx context.Context, productID string) ([]byte, error)
	// BuildDrawerReconciliationXLSX renders one drawer shift with its
	// entries and the expected/counted/difference summary.
	BuildDrawerReconciliationXLSX(ctx context.Context, drawerID string) ([]byte, error)
}
