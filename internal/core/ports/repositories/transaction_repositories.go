package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
)

// ListTransactionsParams narrows transaction listings.
type ListTransactionsParams struct {
	CashierID *string
	Status    *domain.TransactionStatus
	Limit     int
	NextToken *string
}

// TransactionRepository defines persistence for sale transactions and owns
// the multi-entity atomic units of the transaction state machine. Status
// transitions are compare-and-swap: they assert the expected prior status in
// the same database transaction as their side effects, so a losing
// concurrent transition fails with apperrors.ErrInvalidState instead of
// silently overwriting.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	FindItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error)
	ListTransactions(ctx context.Context, params ListTransactionsParams) ([]domain.Transaction, *string, error)

	// UpsertItemInDraft adds or replaces one line of a DRAFT transaction and
	// recomputes the header total, all under the header's row lock. Returns
	// the updated header.
	UpsertItemInDraft(ctx context.Context, transactionID string, item domain.TransactionItem, actorID string) (*domain.Transaction, error)

	// RemoveItemFromDraft deletes one line and recomputes the total.
	RemoveItemFromDraft(ctx context.Context, transactionID, productID, actorID string) (*domain.Transaction, error)

	// CompleteTransaction performs the completion atomic unit: CAS
	// DRAFT->COMPLETED, per-item OUT/SALE ledger entries with locked
	// before/after quantities, cached quantity decrements, and a CASH_IN
	// drawer entry against the owning cashier's open drawer. A failure at
	// any step rolls back every side effect.
	CompleteTransaction(ctx context.Context, transactionID string, paymentMethod domain.PaymentMethod, paymentAmount decimal.Decimal, actorID string) (*domain.Transaction, error)

	// LockTransaction transitions DRAFT or COMPLETED to LOCKED. Locking an
	// already LOCKED transaction is a no-op.
	LockTransaction(ctx context.Context, transactionID, actorID string) error

	// DeleteTransaction removes a transaction of any status. For a
	// COMPLETED/LOCKED transaction it first appends compensating
	// IN/ADJUSTMENT ledger entries restoring stock; when reverseDrawer is
	// set it also appends a compensating CASH_OUT entry to the drawer that
	// recorded the sale, provided that drawer is still open.
	DeleteTransaction(ctx context.Context, transactionID, actorID string, reverseDrawer bool) error

	// ListStaleDraftIDs returns IDs of DRAFT transactions created before the
	// cutoff, oldest first.
	ListStaleDraftIDs(ctx context.Context, cutoff time.Time, limit int) ([]string, error)
}
