package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/reports"
)

// reportPageSize is the ledger page size used when collecting full
// histories for export.
const reportPageSize = 500

// reportService renders ledger data as xlsx workbooks.
type reportService struct {
	productRepo portsrepo.ProductRepository
	ledgerRepo  portsrepo.StockLedgerRepository
	drawerRepo  portsrepo.DrawerRepository
}

// NewReportService creates a new ReportService.
func NewReportService(productRepo portsrepo.ProductRepository, ledgerRepo portsrepo.StockLedgerRepository, drawerRepo portsrepo.DrawerRepository) portssvc.ReportSvcFacade {
	return &reportService{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
		drawerRepo:  drawerRepo,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// BuildStockCardXLSX renders one product's full movement history.
func (s *reportService) BuildStockCardXLSX(ctx context.Context, productID string) ([]byte, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	movements := []domain.StockMovement{}
	var nextToken *string
	for {
		page, token, err := s.ledgerRepo.ListMovementsByProduct(ctx, productID, reportPageSize, nextToken, domain.MovementFilter{})
		if err != nil {
			return nil, err
		}
		movements = append(movements, page...)
		if token == nil {
			break
		}
		nextToken = token
	}

	f, err := reports.BuildStockCard(*product, movements)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize stock card workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildDrawerReconciliationXLSX renders one drawer shift with its entries.
func (s *reportService) BuildDrawerReconciliationXLSX(ctx context.Context, drawerID string) ([]byte, error) {
	drawer, err := s.drawerRepo.FindDrawerByID(ctx, drawerID)
	if err != nil {
		return nil, err
	}

	entries := []domain.DrawerEntry{}
	var nextToken *string
	for {
		page, token, err := s.drawerRepo.ListEntriesByDrawer(ctx, drawerID, reportPageSize, nextToken)
		if err != nil {
			return nil, err
		}
		entries = append(entries, page...)
		if token == nil {
			break
		}
		nextToken = token
	}

	f, err := reports.BuildDrawerReconciliation(*drawer, entries)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize drawer reconciliation workbook: %w", err)
	}
	return buf.Bytes(), nil
}
