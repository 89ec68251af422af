package services

import (
	"context"
	"time"

	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	"github.com/kasirone/kasir_pos_app/internal/dto"
)

// TransactionSvcFacade exposes the sale transaction state machine:
// DRAFT -> COMPLETED, or -> LOCKED (explicitly or via the stale-draft sweep).
type TransactionSvcFacade interface {
	CreateDraft(ctx context.Context, cashierID string) (*domain.Transaction, error)
	UpsertItem(ctx context.Context, transactionID string, req dto.UpsertItemRequest, actorID string) (*domain.Transaction, error)
	Complete(ctx context.Context, transactionID string, req dto.CompleteTransactionRequest, actorID string) (*domain.Transaction, error)
	Lock(ctx context.Context, transactionID, actorID string) error
	Delete(ctx context.Context, transactionID, actorID string) error
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)

	// SweepStaleDrafts locks every DRAFT transaction older than the given
	// age and reports how many were transitioned. The scheduler and
	// interactive callers share this exact code path.
	SweepStaleDrafts(ctx context.Context, olderThan time.Duration) (int, error)
}
