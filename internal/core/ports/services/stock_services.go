package services

import (
	"context"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/dto"
)

// StockSvcFacade exposes the stock ledger: the single append point for
// inventory changes and its read side.
type StockSvcFacade interface {
	RecordMovement(ctx context.Context, req dto.RecordMovementRequest, actorID string) (*domain.StockMovement, error)
	RecordOpname(ctx context.Context, req dto.OpnameRequest, actorID string) (*domain.StockMovement, error)
	ListMovements(ctx context.Context, productID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error)
}
