package services

import (
	"context"
	"fmt"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// stockService exposes the stock ledger. All quantity math happens in the
// repository under the product's row lock; this layer validates shape and
// translates DTOs.
type stockService struct {
	ledgerRepo  portsrepo.StockLedgerRepository
	productRepo portsrepo.ProductRepository
}

// NewStockService creates a new StockService.
func NewStockService(ledgerRepo portsrepo.StockLedgerRepository, productRepo portsrepo.ProductRepository) portssvc.StockSvcFacade {
	return &stockService{
		ledgerRepo:  ledgerRepo,
		productRepo: productRepo,
	}
}

var _ portssvc.StockSvcFacade = (*stockService)(nil)

// RecordMovement appends one entry to the stock ledger.
func (s *stockService) RecordMovement(ctx context.Context, req dto.RecordMovementRequest, actorID string) (*domain.StockMovement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	movementType := domain.MovementType(req.MovementType)
	if movementType != domain.MovementAdjustment && req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive for %s movements", apperrors.ErrValidation, movementType)
	}
	if req.Quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must not be zero", apperrors.ErrValidation)
	}

	movement, err := s.ledgerRepo.RecordMovement(ctx, req.ProductID, movementType, req.Quantity,
		domain.ReferenceType(req.ReferenceType), req.ReferenceID, req.Notes, actorID)
	if err != nil {
		logger.Error("Failed to record stock movement", "error", err, "product_id", req.ProductID)
		return nil, err
	}
	return movement, nil
}

// RecordOpname reconciles a physical stock count. A count matching the live
// quantity records nothing and returns nil.
func (s *stockService) RecordOpname(ctx context.Context, req dto.OpnameRequest, actorID string) (*domain.StockMovement, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	movement, err := s.ledgerRepo.RecordOpname(ctx, req.ProductID, req.CountedQty, req.Notes, actorID)
	if err != nil {
		logger.Error("Failed to record stock opname", "error", err, "product_id", req.ProductID)
		return nil, err
	}
	return movement, nil
}

// ListMovements retrieves a paginated ledger slice for one product.
func (s *stockService) ListMovements(ctx context.Context, productID string, params dto.ListMovementsParams) (*dto.ListMovementsResponse, error) {
	if _, err := s.productRepo.FindProductByID(ctx, productID); err != nil {
		return nil, err
	}

	filter := domain.MovementFilter{}
	if params.MovementType != nil && *params.MovementType != "" {
		mt := domain.MovementType(*params.MovementType)
		filter.MovementType = &mt
	}
	if params.ReferenceType != nil && *params.ReferenceType != "" {
		rt := domain.ReferenceType(*params.ReferenceType)
		filter.ReferenceType = &rt
	}

	movements, nextToken, err := s.ledgerRepo.ListMovementsByProduct(ctx, productID, params.Limit, params.NextToken, filter)
	if err != nil {
		return nil, err
	}
	return &dto.ListMovementsResponse{
		Movements: dto.ToMovementResponses(movements),
		NextToken: nextToken,
	}, nil
}
