package dto

import (
	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// CreateProductRequest defines the payload for creating a catalog product.
// InitialStock, when positive, is recorded as an opening IN/PURCHASE ledger
// entry rather than a bare quantity write.
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	MinStock     int64           `json:"minStock" binding:"gte=0"`
	TrackStock   bool            `json:"trackStock"`
	InitialStock int64           `json:"initialStock" binding:"gte=0"`
}

// UpdateProductRequest defines the mutable product fields. Quantity is
// deliberately absent: it only changes through the stock ledger.
type UpdateProductRequest struct {
	Name     *string          `json:"name,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	MinStock *int64           `json:"minStock,omitempty"`
	IsActive *bool            `json:"isActive,omitempty"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID  string          `json:"productID"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	MinStock   int64           `json:"minStock"`
	TrackStock bool            `json:"trackStock"`
	IsActive   bool            `json:"isActive"`
}

// ListProductsParams holds query parameters for product listings.
type ListProductsParams struct {
	Limit      int     `form:"limit"`
	NextToken  *string `form:"nextToken"`
	ActiveOnly bool    `form:"activeOnly"`
}

// ListProductsResponse is a page of products plus the next cursor.
type ListProductsResponse struct {
	Products  []ProductResponse `json:"products"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToProductResponse converts a domain.Product to its response DTO.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:  p.ProductID,
		SKU:        p.SKU,
		Name:       p.Name,
		Price:      p.Price,
		Quantity:   p.Quantity,
		MinStock:   p.MinStock,
		TrackStock: p.TrackStock,
		IsActive:   p.IsActive,
	}
}

// ToProductResponses converts a slice of domain products.
func ToProductResponses(ps []domain.Product) []ProductResponse {
	responses := make([]ProductResponse, len(ps))
	for i := range ps {
		responses[i] = ToProductResponse(&ps[i])
	}
	return responses
}
