package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	"github.com/kasirone/kasir_pos_app/internal/models"
	"github.com/kasirone/kasir_pos_app/internal/utils/mapping"
	"github.com/kasirone/kasir_pos_app/internal/utils/stockmath"
)

const returnColumns = `return_id, transaction_id, refund_amount, refund_method, notes, created_at, created_by`
const returnItemColumns = `return_item_id, return_id, product_id, quantity, unit_price, subtotal`

type PgxReturnRepository struct {
	BaseRepository
	productRepo portsrepo.ProductRepository
	ledgerRepo  portsrepo.StockLedgerRepository
}

// newPgxReturnRepository creates the repository that owns the return
// processing atomic unit.
func newPgxReturnRepository(pool *pgxpool.Pool, productRepo portsrepo.ProductRepository, ledgerRepo portsrepo.StockLedgerRepository) portsrepo.ReturnRepository {
	return &PgxReturnRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		ledgerRepo:     ledgerRepo,
	}
}

var _ portsrepo.ReturnRepository = (*PgxReturnRepository)(nil)

func scanReturn(row pgx.Row) (models.Return, error) {
	var m models.Return
	err := row.Scan(
		&m.ReturnID,
		&m.TransactionID,
		&m.RefundAmount,
		&m.RefundMethod,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

func scanReturnItem(row pgx.Row) (models.ReturnItem, error) {
	var m models.ReturnItem
	err := row.Scan(
		&m.ReturnItemID,
		&m.ReturnID,
		&m.ProductID,
		&m.Quantity,
		&m.UnitPrice,
		&m.Subtotal,
	)
	return m, err
}

// SaveReturn persists a return as one atomic unit. The original
// transaction's row lock is held while returnable quantities are re-checked,
// so concurrent returns against the same sale serialize and over-returns
// cannot slip through. Stock restoration and the refund's drawer outflow
// commit together with the return record or not at all.
func (r *PgxReturnRepository) SaveReturn(ctx context.Context, ret domain.Return, actorID string) (*domain.Return, error) {
	if len(ret.Items) == 0 {
		return nil, fmt.Errorf("%w: return has no items", apperrors.ErrValidation)
	}

	var result *domain.Return

	err := r.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		original, err := lockTransactionTx(ctx, tx, ret.TransactionID)
		if err != nil {
			return err
		}
		if !original.Status.IsTerminal() {
			return fmt.Errorf("%w: transaction %s is %s, returns require COMPLETED or LOCKED",
				apperrors.ErrInvalidState, ret.TransactionID, original.Status)
		}

		soldItems, err := fetchItemsTx(ctx, tx, ret.TransactionID)
		if err != nil {
			return err
		}
		soldByProduct := make(map[string]domain.TransactionItem, len(soldItems))
		for _, item := range soldItems {
			soldByProduct[item.ProductID] = item
		}

		alreadyReturned, err := sumReturnedQuantitiesTx(ctx, tx, ret.TransactionID)
		if err != nil {
			return err
		}

		now := time.Now()
		returnID := ret.ReturnID
		if returnID == "" {
			returnID = uuid.NewString()
		}

		refundAmount := decimal.Zero
		items := make([]domain.ReturnItem, len(ret.Items))
		productIDs := make([]string, len(ret.Items))
		seen := make(map[string]bool, len(ret.Items))
		for i, reqItem := range ret.Items {
			if reqItem.Quantity <= 0 {
				return fmt.Errorf("%w: return quantity must be positive for product %s", apperrors.ErrValidation, reqItem.ProductID)
			}
			if seen[reqItem.ProductID] {
				return fmt.Errorf("%w: duplicate product %s in return", apperrors.ErrValidation, reqItem.ProductID)
			}
			seen[reqItem.ProductID] = true

			sold, ok := soldByProduct[reqItem.ProductID]
			if !ok {
				return fmt.Errorf("%w: product %s was not sold on transaction %s",
					apperrors.ErrValidation, reqItem.ProductID, ret.TransactionID)
			}
			returnable := sold.Quantity - alreadyReturned[reqItem.ProductID]
			if reqItem.Quantity > returnable {
				return fmt.Errorf("%w: product %s has %d returnable, requested %d",
					apperrors.ErrOverReturn, reqItem.ProductID, returnable, reqItem.Quantity)
			}

			subtotal := sold.UnitPrice.Mul(decimal.NewFromInt(reqItem.Quantity))
			items[i] = domain.ReturnItem{
				ReturnItemID: uuid.NewString(),
				ReturnID:     returnID,
				ProductID:    reqItem.ProductID,
				Quantity:     reqItem.Quantity,
				UnitPrice:    sold.UnitPrice,
				Subtotal:     subtotal,
			}
			productIDs[i] = reqItem.ProductID
			refundAmount = refundAmount.Add(subtotal)
		}

		// Refunds leave the till in cash regardless of how the sale was paid.
		drawer, err := lockOpenDrawerByCashierTx(ctx, tx, actorID)
		if err != nil {
			return err
		}

		locked, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs)
		if err != nil {
			return err
		}

		movements := make([]domain.StockMovement, 0, len(items))
		deltas := make(map[string]int64, len(items))
		for _, item := range items {
			product := locked[item.ProductID]
			after, err := stockmath.NextQuantity(product.Quantity, domain.MovementReturn, item.Quantity, product.TrackStock)
			if err != nil {
				return err
			}
			movements = append(movements, domain.StockMovement{
				MovementID:    uuid.NewString(),
				ProductID:     item.ProductID,
				MovementType:  domain.MovementReturn,
				Quantity:      item.Quantity,
				BeforeQty:     product.Quantity,
				AfterQty:      after,
				ReferenceType: domain.ReferenceReturn,
				ReferenceID:   returnID,
				CreatedAt:     now,
				CreatedBy:     actorID,
			})
			deltas[item.ProductID] = after - product.Quantity
		}

		insertReturn := `
			INSERT INTO returns (` + returnColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7);
		`
		if _, err := tx.Exec(ctx, insertReturn,
			returnID, ret.TransactionID, refundAmount, string(ret.RefundMethod), ret.Notes, now, actorID,
		); err != nil {
			return fmt.Errorf("failed to insert return %s: %w", returnID, err)
		}

		insertItem := `
			INSERT INTO return_items (` + returnItemColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		batch := &pgx.Batch{}
		for _, item := range items {
			batch.Queue(insertItem, item.ReturnItemID, item.ReturnID, item.ProductID, item.Quantity, item.UnitPrice, item.Subtotal)
		}
		br := tx.SendBatch(ctx, batch)
		var batchErr error
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil && batchErr == nil {
				batchErr = fmt.Errorf("failed to insert return item for product %s: %w", items[i].ProductID, err)
			}
		}
		if err := br.Close(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to close return item batch: %w", err)
		}
		if batchErr != nil {
			return batchErr
		}

		if err := r.ledgerRepo.InsertMovementsInTx(ctx, tx, movements); err != nil {
			return err
		}
		if err := r.productRepo.ApplyQuantityDeltasInTx(ctx, tx, deltas); err != nil {
			return err
		}

		if err := appendDrawerEntryTx(ctx, tx, domain.DrawerEntry{
			EntryID:       uuid.NewString(),
			DrawerID:      drawer.DrawerID,
			EntryType:     domain.EntryCashOut,
			Amount:        refundAmount,
			ReferenceType: domain.DrawerRefReturn,
			ReferenceID:   returnID,
			CreatedAt:     now,
			CreatedBy:     actorID,
		}); err != nil {
			return err
		}

		if err := r.Commit(ctx, tx); err != nil {
			return err
		}

		result = &domain.Return{
			ReturnID:      returnID,
			TransactionID: ret.TransactionID,
			Items:         items,
			RefundAmount:  refundAmount,
			RefundMethod:  ret.RefundMethod,
			Notes:         ret.Notes,
			CreatedAt:     now,
			CreatedBy:     actorID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Processed return",
		"return_id", result.ReturnID,
		"transaction_id", result.TransactionID,
		"refund_amount", result.RefundAmount,
		"item_count", len(result.Items),
	)
	return result, nil
}

// FindReturnByID retrieves a return and its items.
func (r *PgxReturnRepository) FindReturnByID(ctx context.Context, returnID string) (*domain.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE return_id = $1;`
	m, err := scanReturn(r.Pool.QueryRow(ctx, query, returnID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find return %s: %w", returnID, err)
	}

	items, err := r.fetchReturnItems(ctx, returnID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainReturn(m)
	d.Items = items
	return &d, nil
}

// ListReturnsByTransaction retrieves every return filed against one
// transaction, oldest first, items included.
func (r *PgxReturnRepository) ListReturnsByTransaction(ctx context.Context, transactionID string) ([]domain.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE transaction_id = $1 ORDER BY created_at ASC, return_id ASC;`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query returns for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	modelReturns := []models.Return{}
	for rows.Next() {
		m, scanErr := scanReturn(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan return row: %w", scanErr)
		}
		modelReturns = append(modelReturns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating return rows: %w", err)
	}

	returns := make([]domain.Return, len(modelReturns))
	for i, m := range modelReturns {
		items, err := r.fetchReturnItems(ctx, m.ReturnID)
		if err != nil {
			return nil, err
		}
		returns[i] = mapping.ToDomainReturn(m)
		returns[i].Items = items
	}
	return returns, nil
}

// SumReturnedQuantities reports cumulative returned quantity per product for
// one transaction.
func (r *PgxReturnRepository) SumReturnedQuantities(ctx context.Context, transactionID string) (map[string]int64, error) {
	return sumReturnedQuantitiesTx(ctx, r.Pool, transactionID)
}

func (r *PgxReturnRepository) fetchReturnItems(ctx context.Context, returnID string) ([]domain.ReturnItem, error) {
	query := `SELECT ` + returnItemColumns + ` FROM return_items WHERE return_id = $1 ORDER BY return_item_id;`
	rows, err := r.Pool.Query(ctx, query, returnID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for return %s: %w", returnID, err)
	}
	defer rows.Close()

	modelItems := []models.ReturnItem{}
	for rows.Next() {
		m, scanErr := scanReturnItem(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan return item row: %w", scanErr)
		}
		modelItems = append(modelItems, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating return item rows: %w", err)
	}
	return mapping.ToDomainReturnItemSlice(modelItems), nil
}
