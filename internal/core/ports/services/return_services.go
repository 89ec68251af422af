package services

import (
	"context"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/dto"
)

// ReturnSvcFacade exposes the return/reversal processor.
type ReturnSvcFacade interface {
	CreateReturn(ctx context.Context, transactionID string, req dto.CreateReturnRequest, actorID string) (*domain.Return, error)
	GetReturn(ctx context.Context, returnID string) (*domain.Return, error)
	ListReturnsByTransaction(ctx context.Context, transactionID string) ([]domain.Return, error)
}
