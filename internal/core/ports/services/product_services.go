package services

import (
	"context"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/dto"
)

// ProductSvcFacade exposes the product catalog. Quantity changes are not
// part of this facade: they only happen through the stock ledger.
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest, actorID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID string, req dto.UpdateProductRequest, actorID string) (*domain.Product, error)
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, params dto.ListProductsParams) (*dto.ListProductsResponse, error)
	ListLowStock(ctx context.Context) ([]domain.Product, error)
}
