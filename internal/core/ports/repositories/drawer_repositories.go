package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// DrawerRepository defines persistence for cash drawer shifts and their
// append-only cash ledger. Running totals are additive and serialized per
// drawer via the drawer's row lock; entries are never edited.
type DrawerRepository interface {
	// OpenDrawer inserts a new OPEN drawer. Fails with
	// apperrors.ErrDrawerAlreadyOpen when the cashier already has one
	// (enforced by a partial unique index, so concurrent opens cannot both
	// succeed).
	OpenDrawer(ctx context.Context, drawer domain.CashDrawer) error

	FindDrawerByID(ctx context.Context, drawerID string) (*domain.CashDrawer, error)
	FindOpenDrawerByCashier(ctx context.Context, cashierID string) (*domain.CashDrawer, error)

	// RecordEntry appends a manual CASH_IN/CASH_OUT entry and bumps the
	// matching running total under the drawer's row lock. Fails with
	// apperrors.ErrInvalidState when the drawer is CLOSED.
	RecordEntry(ctx context.Context, entry domain.DrawerEntry) (*domain.CashDrawer, error)

	// CloseDrawer computes expected = opening + cash_in - cash_out, records
	// difference = counted - expected, and CASes OPEN->CLOSED. A nonzero
	// difference is data, not an error.
	CloseDrawer(ctx context.Context, drawerID string, countedAmount decimal.Decimal, notes, actorID string) (*domain.CashDrawer, error)

	ListEntriesByDrawer(ctx context.Context, drawerID string, limit int, nextToken *string) ([]domain.DrawerEntry, *string, error)
	ListDrawers(ctx context.Context, cashierID *string, limit int, nextToken *string) ([]domain.CashDrawer, *string, error)
}
