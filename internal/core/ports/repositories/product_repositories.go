package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// ProductRepository defines the persistence operations for catalog products.
//
// The ForUpdate/InTx methods participate in a caller-owned database
// transaction: the cached product quantity is never written outside the
// transaction that appends the justifying stock movement.
type ProductRepository interface {
	SaveProduct(ctx context.Context, product domain.Product) error
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) error
	ListProducts(ctx context.Context, limit int, nextToken *string, activeOnly bool) ([]domain.Product, *string, error)
	ListLowStock(ctx context.Context) ([]domain.Product, error)

	// FindProductsByIDsForUpdate locks the product rows for the duration of
	// tx. IDs are locked in sorted order so concurrent multi-product writers
	// cannot deadlock against each other.
	FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error)

	// ApplyQuantityDeltasInTx additively updates cached quantities for rows
	// previously locked in the same tx.
	ApplyQuantityDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]int64) error
}
