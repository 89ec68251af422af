package services

import (
	"context"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/dto"
)

// DrawerSvcFacade exposes cash drawer shifts and their cash ledger.
type DrawerSvcFacade interface {
	Open(ctx context.Context, cashierID string, req dto.OpenDrawerRequest) (*domain.CashDrawer, error)
	RecordCashIn(ctx context.Context, drawerID string, req dto.CashEntryRequest, actorID string) (*domain.CashDrawer, error)
	RecordCashOut(ctx context.Context, drawerID string, req dto.CashEntryRequest, actorID string) (*domain.CashDrawer, error)
	Close(ctx context.Context, drawerID string, req dto.CloseDrawerRequest, actorID string) (*domain.CashDrawer, error)
	GetDrawer(ctx context.Context, drawerID string) (*domain.CashDrawer, error)
	GetOpenDrawer(ctx context.Context, cashierID string) (*domain.CashDrawer, error)
	ListEntries(ctx context.Context, drawerID string, limit int, nextToken *string) (*dto.ListDrawerEntriesResponse, error)
	ListDrawers(ctx context.Context, params dto.ListDrawersParams) (*dto.ListDrawersResponse, error)
}
