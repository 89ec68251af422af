package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// productService provides catalog operations. Stock quantities are owned by
// the ledger; this service only seeds opening stock through it.
type productService struct {
	productRepo portsrepo.ProductRepository
	ledgerRepo  portsrepo.StockLedgerRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo portsrepo.ProductRepository, ledgerRepo portsrepo.StockLedgerRepository) portssvc.ProductSvcFacade {
	return &productService{
		productRepo: productRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

// CreateProduct registers a new catalog product. A positive InitialStock is
// recorded as an opening IN/PURCHASE ledger entry, never a bare quantity
// write, so the ledger replays to the cached quantity from day one.
func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest, actorID string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	product := domain.Product{
		ProductID:  uuid.NewString(),
		SKU:        req.SKU,
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   0,
		MinStock:   req.MinStock,
		TrackStock: req.TrackStock,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		logger.Error("Failed to create product", "error", err, "sku", req.SKU)
		return nil, err
	}

	if req.InitialStock > 0 {
		movement, err := s.ledgerRepo.RecordMovement(ctx, product.ProductID, domain.MovementIn, req.InitialStock,
			domain.ReferencePurchase, product.ProductID, "opening stock", actorID)
		if err != nil {
			logger.Error("Failed to record opening stock", "error", err, "product_id", product.ProductID)
			return nil, err
		}
		product.Quantity = movement.AfterQty
	}

	logger.Info("Created product", "product_id", product.ProductID, "sku", product.SKU)
	return &product, nil
}

// UpdateProduct applies partial updates to the mutable catalog fields.
func (s *productService) UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, actorID string) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", apperrors.ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, fmt.Errorf("%w: minStock must not be negative", apperrors.ErrValidation)
		}
		product.MinStock = *req.MinStock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.LastUpdatedAt = time.Now()
	product.LastUpdatedBy = actorID

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		logger.Error("Failed to update product", "error", err, "product_id", productID)
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves one product.
func (s *productService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.productRepo.FindProductByID(ctx, productID)
}

// ListProducts retrieves a paginated product listing.
func (s *productService) ListProducts(ctx context.Context, params dto.ListProductsParams) (*dto.ListProductsResponse, error) {
	products, nextToken, err := s.productRepo.ListProducts(ctx, params.Limit, params.NextToken, params.ActiveOnly)
	if err != nil {
		return nil, err
	}
	return &dto.ListProductsResponse{
		Products:  dto.ToProductResponses(products),
		NextToken: nextToken,
	}, nil
}

// ListLowStock retrieves tracked products at or below their minimum stock.
func (s *productService) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	return s.productRepo.ListLowStock(ctx)
}
