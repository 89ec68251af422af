package repositories

import (
	"context"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// ReturnRepository defines persistence for compensating returns. SaveReturn
// is an atomic unit: it holds the original transaction's row lock while it
// re-checks returnable quantities, appends RETURN/IN ledger entries, and
// records the refund against the acting cashier's open drawer.
type ReturnRepository interface {
	SaveReturn(ctx context.Context, ret domain.Return, actorID string) (*domain.Return, error)
	FindReturnByID(ctx context.Context, returnID string) (*domain.Return, error)
	ListReturnsByTransaction(ctx context.Context, transactionID string) ([]domain.Return, error)

	// SumReturnedQuantities reports cumulative returned quantity per product
	// for one transaction.
	SumReturnedQuantities(ctx context.Context, transactionID string) (map[string]int64, error)
}
