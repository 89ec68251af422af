package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// StockLedgerRepository is the single append point for inventory changes.
// Every write records before/after quantities under the product's row lock
// and updates the cached product quantity in the same database transaction.
type StockLedgerRepository interface {
	// RecordMovement appends one ledger entry and applies it to the cached
	// quantity atomically. Fails with apperrors.ErrNegativeStock when an OUT
	// movement would take a tracked product below zero.
	RecordMovement(ctx context.Context, productID string, movementType domain.MovementType, quantity int64, referenceType domain.ReferenceType, referenceID, notes, actorID string) (*domain.StockMovement, error)

	// RecordOpname reconciles a physical count: it computes the delta
	// against the live quantity under the product lock and appends an
	// ADJUSTMENT entry referencing the opname. A zero delta appends nothing
	// and returns nil.
	RecordOpname(ctx context.Context, productID string, countedQty int64, notes, actorID string) (*domain.StockMovement, error)

	// InsertMovementsInTx appends pre-computed entries inside a caller-owned
	// transaction that already holds the product locks.
	InsertMovementsInTx(ctx context.Context, tx pgx.Tx, movements []domain.StockMovement) error

	ListMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string, filter domain.MovementFilter) ([]domain.StockMovement, *string, error)
	ListMovementsByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) ([]domain.StockMovement, error)
}
