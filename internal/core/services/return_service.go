package services

import (
	"context"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// returnService exposes the return processor. Over-return checks run in the
// repository under the original transaction's row lock.
type returnService struct {
	returnRepo      portsrepo.ReturnRepository
	transactionRepo portsrepo.TransactionRepository
}

// NewReturnService creates a new ReturnService.
func NewReturnService(returnRepo portsrepo.ReturnRepository, transactionRepo portsrepo.TransactionRepository) portssvc.ReturnSvcFacade {
	return &returnService{
		returnRepo:      returnRepo,
		transactionRepo: transactionRepo,
	}
}

var _ portssvc.ReturnSvcFacade = (*returnService)(nil)

// CreateReturn files a compensating return against a completed sale. Refunds
// are treated as cash for drawer purposes regardless of the original payment
// method.
func (s *returnService) CreateReturn(ctx context.Context, transactionID string, req dto.CreateReturnRequest, actorID string) (*domain.Return, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	items := make([]domain.ReturnItem, len(req.Items))
	for i, reqItem := range req.Items {
		items[i] = domain.ReturnItem{
			ProductID: reqItem.ProductID,
			Quantity:  reqItem.Quantity,
		}
	}

	ret := domain.Return{
		TransactionID: transactionID,
		Items:         items,
		RefundMethod:  domain.PaymentCash,
		Notes:         req.Notes,
	}

	saved, err := s.returnRepo.SaveReturn(ctx, ret, actorID)
	if err != nil {
		logger.Error("Failed to create return", "error", err, "transaction_id", transactionID)
		return nil, err
	}
	return saved, nil
}

// GetReturn retrieves one return with its items.
func (s *returnService) GetReturn(ctx context.Context, returnID string) (*domain.Return, error) {
	return s.returnRepo.FindReturnByID(ctx, returnID)
}

// ListReturnsByTransaction retrieves every return filed against one
// transaction.
func (s *returnService) ListReturnsByTransaction(ctx context.Context, transactionID string) ([]domain.Return, error) {
	if _, err := s.transactionRepo.FindTransactionByID(ctx, transactionID); err != nil {
		return nil, err
	}
	return s.returnRepo.ListReturnsByTransaction(ctx, transactionID)
}
