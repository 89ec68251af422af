package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/dto"
	"github.com/kasirone/kasir_pos_app/internal/middleware"
)

// staleDraftBatchSize caps how many drafts one sweep pass locks.
const staleDraftBatchSize = 200

// transactionService drives the sale state machine. Status transitions and
// their side effects are atomic in the repository; this layer validates
// input, snapshots prices, and runs advisory stock checks whose result the
// repository re-verifies under lock.
type transactionService struct {
	transactionRepo       portsrepo.TransactionRepository
	productRepo           portsrepo.ProductRepository
	reverseDrawerOnDelete bool
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactionRepo portsrepo.TransactionRepository, productRepo portsrepo.ProductRepository, reverseDrawerOnDelete bool) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo:       transactionRepo,
		productRepo:           productRepo,
		reverseDrawerOnDelete: reverseDrawerOnDelete,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateDraft opens an empty DRAFT transaction for a cashier.
func (s *transactionService) CreateDraft(ctx context.Context, cashierID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		CashierID:     cashierID,
		Status:        domain.StatusDraft,
		Total:         decimal.Zero,
		PaymentAmount: decimal.Zero,
		ChangeAmount:  decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     cashierID,
			LastUpdatedAt: now,
			LastUpdatedBy: cashierID,
		},
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		logger.Error("Failed to create draft transaction", "error", err, "cashier_id", cashierID)
		return nil, err
	}

	logger.Info("Created draft transaction", "transaction_id", txn.TransactionID, "cashier_id", cashierID)
	return &txn, nil
}

// UpsertItem adds or replaces one line of a draft. Quantity zero removes the
// line. The unit price is snapshotted from the product here and the stock
// check is advisory; completion re-checks authoritatively under lock.
func (s *transactionService) UpsertItem(ctx context.Context, transactionID string, req dto.UpsertItemRequest, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Quantity == 0 {
		return s.transactionRepo.RemoveItemFromDraft(ctx, transactionID, req.ProductID, actorID)
	}

	product, err := s.productRepo.FindProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: product %s is inactive", apperrors.ErrValidation, req.ProductID)
	}
	if product.TrackStock && req.Quantity > product.Quantity {
		return nil, fmt.Errorf("%w: product %s has %d on hand, requested %d",
			apperrors.ErrInsufficientStock, req.ProductID, product.Quantity, req.Quantity)
	}

	item := domain.TransactionItem{
		ItemID:        uuid.NewString(),
		TransactionID: transactionID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		UnitPrice:     product.Price,
		Subtotal:      product.Price.Mul(decimal.NewFromInt(req.Quantity)),
	}

	updated, err := s.transactionRepo.UpsertItemInDraft(ctx, transactionID, item, actorID)
	if err != nil {
		logger.Error("Failed to upsert transaction item", "error", err,
			"transaction_id", transactionID, "product_id", req.ProductID)
		return nil, err
	}
	return updated, nil
}

// Complete finalizes a draft: payment check, stock ledger appends, drawer
// inflow, and the DRAFT to COMPLETED transition, all in one atomic unit.
func (s *transactionService) Complete(ctx context.Context, transactionID string, req dto.CompleteTransactionRequest, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.PaymentAmount.IsNegative() {
		return nil, fmt.Errorf("%w: payment amount must not be negative", apperrors.ErrValidation)
	}

	txn, err := s.transactionRepo.CompleteTransaction(ctx, transactionID,
		domain.PaymentMethod(req.PaymentMethod), req.PaymentAmount, actorID)
	if err != nil {
		logger.Error("Failed to complete transaction", "error", err, "transaction_id", transactionID)
		return nil, err
	}
	return txn, nil
}

// Lock transitions a transaction to LOCKED. Idempotent for already locked
// transactions.
func (s *transactionService) Lock(ctx context.Context, transactionID, actorID string) error {
	return s.transactionRepo.LockTransaction(ctx, transactionID, actorID)
}

// Delete removes a transaction of any status, writing compensating stock
// entries for completed sales. Drawer reversal follows the configured
// policy.
func (s *transactionService) Delete(ctx context.Context, transactionID, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID, actorID, s.reverseDrawerOnDelete); err != nil {
		logger.Error("Failed to delete transaction", "error", err, "transaction_id", transactionID)
		return err
	}
	return nil
}

// GetTransaction retrieves a transaction with its items.
func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	items, err := s.transactionRepo.FindItemsByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	txn.Items = items
	return txn, nil
}

// ListTransactions retrieves a paginated transaction history.
func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	repoParams := portsrepo.ListTransactionsParams{
		CashierID: params.CashierID,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if params.Status != nil && *params.Status != "" {
		status := domain.TransactionStatus(*params.Status)
		switch status {
		case domain.StatusDraft, domain.StatusCompleted, domain.StatusLocked:
			repoParams.Status = &status
		default:
			return nil, fmt.Errorf("%w: unknown status '%s'", apperrors.ErrValidation, *params.Status)
		}
	}

	txns, nextToken, err := s.transactionRepo.ListTransactions(ctx, repoParams)
	if err != nil {
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// SweepStaleDrafts locks every DRAFT transaction older than olderThan. Each
// lock goes through the same CAS transition as interactive calls, so a
// draft completed mid-sweep is skipped, not clobbered.
func (s *transactionService) SweepStaleDrafts(ctx context.Context, olderThan time.Duration) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	cutoff := time.Now().Add(-olderThan)
	locked := 0
	for {
		ids, err := s.transactionRepo.ListStaleDraftIDs(ctx, cutoff, staleDraftBatchSize)
		if err != nil {
			return locked, err
		}
		if len(ids) == 0 {
			break
		}

		progress := false
		for _, id := range ids {
			if err := s.transactionRepo.LockTransaction(ctx, id, "system"); err != nil {
				logger.Warn("Failed to auto-lock stale draft", "error", err, "transaction_id", id)
				continue
			}
			locked++
			progress = true
		}
		if !progress || len(ids) < staleDraftBatchSize {
			break
		}
	}

	if locked > 0 {
		logger.Info("Auto-locked stale drafts", "count", locked, "cutoff", cutoff)
	}
	return locked, nil
}
