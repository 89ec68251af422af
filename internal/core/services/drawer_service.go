package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// drawerService exposes cash drawer shifts. Totals arithmetic happens in the
// repository under the drawer's row lock.
type drawerService struct {
	drawerRepo portsrepo.DrawerRepository
}

// NewDrawerService creates a new DrawerService.
func NewDrawerService(drawerRepo portsrepo.DrawerRepository) portssvc.DrawerSvcFacade {
	return &drawerService{drawerRepo: drawerRepo}
}

var _ portssvc.DrawerSvcFacade = (*drawerService)(nil)

// Open starts a drawer shift for a cashier.
func (s *drawerService) Open(ctx context.Context, cashierID string, req dto.OpenDrawerRequest) (*domain.CashDrawer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance must not be negative", apperrors.ErrValidation)
	}

	drawer := domain.CashDrawer{
		DrawerID:       uuid.NewString(),
		CashierID:      cashierID,
		OpeningBalance: req.OpeningBalance,
		CashIn:         decimal.Zero,
		CashOut:        decimal.Zero,
		CountedAmount:  decimal.Zero,
		Difference:     decimal.Zero,
		Status:         domain.DrawerOpen,
		OpenedAt:       time.Now(),
	}

	if err := s.drawerRepo.OpenDrawer(ctx, drawer); err != nil {
		logger.Error("Failed to open drawer", "error", err, "cashier_id", cashierID)
		return nil, err
	}
	return &drawer, nil
}

// RecordCashIn appends a manual cash inflow to an open drawer.
func (s *drawerService) RecordCashIn(ctx context.Context, drawerID string, req dto.CashEntryRequest, actorID string) (*domain.CashDrawer, error) {
	return s.recordEntry(ctx, drawerID, domain.EntryCashIn, req, actorID)
}

// RecordCashOut appends a manual cash outflow to an open drawer.
func (s *drawerService) RecordCashOut(ctx context.Context, drawerID string, req dto.CashEntryRequest, actorID string) (*domain.CashDrawer, error) {
	return s.recordEntry(ctx, drawerID, domain.EntryCashOut, req, actorID)
}

func (s *drawerService) recordEntry(ctx context.Context, drawerID string, entryType domain.DrawerEntryType, req dto.CashEntryRequest, actorID string) (*domain.CashDrawer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	entry := domain.DrawerEntry{
		EntryID:       uuid.NewString(),
		DrawerID:      drawerID,
		EntryType:     entryType,
		Amount:        req.Amount,
		ReferenceType: domain.DrawerRefManual,
		Notes:         req.Notes,
		CreatedAt:     time.Now(),
		CreatedBy:     actorID,
	}

	drawer, err := s.drawerRepo.RecordEntry(ctx, entry)
	if err != nil {
		logger.Error("Failed to record drawer entry", "error", err,
			"drawer_id", drawerID, "entry_type", entryType)
		return nil, err
	}
	return drawer, nil
}

// Close ends a shift with the physically counted amount. The difference
// against the expected balance is recorded as data, surplus or shortfall
// alike.
func (s *drawerService) Close(ctx context.Context, drawerID string, req dto.CloseDrawerRequest, actorID string) (*domain.CashDrawer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.CountedAmount.IsNegative() {
		return nil, fmt.Errorf("%w: counted amount must not be negative", apperrors.ErrValidation)
	}

	drawer, err := s.drawerRepo.CloseDrawer(ctx, drawerID, req.CountedAmount, req.Notes, actorID)
	if err != nil {
		logger.Error("Failed to close drawer", "error", err, "drawer_id", drawerID)
		return nil, err
	}
	return drawer, nil
}

// GetDrawer retrieves one drawer.
func (s *drawerService) GetDrawer(ctx context.Context, drawerID string) (*domain.CashDrawer, error) {
	return s.drawerRepo.FindDrawerByID(ctx, drawerID)
}

// GetOpenDrawer retrieves the cashier's currently open drawer.
func (s *drawerService) GetOpenDrawer(ctx context.Context, cashierID string) (*domain.CashDrawer, error) {
	return s.drawerRepo.FindOpenDrawerByCashier(ctx, cashierID)
}

// ListEntries retrieves a paginated slice of a drawer's cash ledger.
func (s *drawerService) ListEntries(ctx context.Context, drawerID string, limit int, nextToken *string) (*dto.ListDrawerEntriesResponse, error) {
	if _, err := s.drawerRepo.FindDrawerByID(ctx, drawerID); err != nil {
		return nil, err
	}

	entries, next, err := s.drawerRepo.ListEntriesByDrawer(ctx, drawerID, limit, nextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListDrawerEntriesResponse{
		Entries:   dto.ToDrawerEntryResponses(entries),
		NextToken: next,
	}, nil
}

// ListDrawers retrieves a paginated drawer history.
func (s *drawerService) ListDrawers(ctx context.Context, params dto.ListDrawersParams) (*dto.ListDrawersResponse, error) {
	drawers, next, err := s.drawerRepo.ListDrawers(ctx, params.CashierID, params.Limit, params.NextToken)
	if err != nil {
		return nil, err
	}
	return &dto.ListDrawersResponse{
		Drawers:   dto.ToDrawerResponses(drawers),
		NextToken: next,
	}, nil
}
