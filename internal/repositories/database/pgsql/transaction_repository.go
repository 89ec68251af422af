package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
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
	"github.com/kasirone/kasir_pos_app/internal/utils/pagination"
	"github.com/kasirone/kasir_pos_app/internal/utils/stockmath"
)

const transactionColumns = `transaction_id, cashier_id, status, total, payment_method, payment_amount, change_amount, completed_at, created_at, created_by, last_updated_at, last_updated_by`
const transactionItemColumns = `item_id, transaction_id, product_id, quantity, unit_price, subtotal`

type PgxTransactionRepository struct {
	BaseRepository
	productRepo portsrepo.ProductRepository
	ledgerRepo  portsrepo.StockLedgerRepository
}

// newPgxTransactionRepository creates the repository that owns the
// transaction state machine's atomic units.
func newPgxTransactionRepository(pool *pgxpool.Pool, productRepo portsrepo.ProductRepository, ledgerRepo portsrepo.StockLedgerRepository) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		ledgerRepo:     ledgerRepo,
	}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CashierID,
		&m.Status,
		&m.Total,
		&m.PaymentMethod,
		&m.PaymentAmount,
		&m.ChangeAmount,
		&m.CompletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanTransactionItem(row pgx.Row) (models.TransactionItem, error) {
	var m models.TransactionItem
	err := row.Scan(
		&m.ItemID,
		&m.TransactionID,
		&m.ProductID,
		&m.Quantity,
		&m.UnitPrice,
		&m.Subtotal,
	)
	return m, err
}

// lockTransactionTx locks a transaction header row for the duration of tx.
func lockTransactionTx(ctx context.Context, tx pgx.Tx, transactionID string) (domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`
	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Transaction{}, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return domain.Transaction{}, fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	return mapping.ToDomainTransaction(m), nil
}

func fetchItemsTx(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, transactionID string) ([]domain.TransactionItem, error) {
	query := `SELECT ` + transactionItemColumns + ` FROM transaction_items WHERE transaction_id = $1 ORDER BY item_id;`
	rows, err := q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	modelItems := []models.TransactionItem{}
	for rows.Next() {
		m, scanErr := scanTransactionItem(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan transaction item row: %w", scanErr)
		}
		modelItems = append(modelItems, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction item rows: %w", err)
	}
	return mapping.ToDomainTransactionItemSlice(modelItems), nil
}

// recomputeTotalTx rewrites the header total from the live item rows and
// returns the refreshed header. The caller must hold the header's row lock.
func recomputeTotalTx(ctx context.Context, tx pgx.Tx, transactionID, actorID string) (domain.Transaction, error) {
	query := `
		UPDATE transactions
		SET total = COALESCE((SELECT SUM(subtotal) FROM transaction_items WHERE transaction_id = $1), 0),
		    last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1
		RETURNING ` + transactionColumns + `;
	`
	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID, time.Now(), actorID))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to recompute total for transaction %s: %w", transactionID, err)
	}
	return mapping.ToDomainTransaction(m), nil
}

// SaveTransaction inserts a new transaction header.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.CashierID,
		m.Status,
		m.Total,
		m.PaymentMethod,
		m.PaymentAmount,
		m.ChangeAmount,
		m.CompletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction header by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindItemsByTransactionID retrieves all items of a transaction.
func (r *PgxTransactionRepository) FindItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	return fetchItemsTx(ctx, r.Pool, transactionID)
}

// ListTransactions retrieves a token-paginated transaction history, newest
// first, optionally narrowed by cashier and status.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, params portsrepo.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	args := []interface{}{}

	if params.CashierID != nil && *params.CashierID != "" {
		args = append(args, *params.CashierID)
		query += ` AND cashier_id = $` + strconv.Itoa(len(args))
	}
	if params.Status != nil {
		args = append(args, string(*params.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if params.NextToken != nil && *params.NextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*params.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, transaction_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, transaction_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	modelTxns := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", scanErr)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextTokenVal *string
	results := modelTxns
	if len(modelTxns) > limit {
		last := modelTxns[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		nextTokenVal = &token
		results = modelTxns[:limit]
	}

	domainTxns := make([]domain.Transaction, len(results))
	for i, m := range results {
		domainTxns[i] = mapping.ToDomainTransaction(m)
	}
	return domainTxns, nextTokenVal, nil
}

// UpsertItemInDraft adds or replaces one line of a DRAFT transaction and
// recomputes the header total, all under the header's row lock.
func (r *PgxTransactionRepository) UpsertItemInDraft(ctx context.Context, transactionID string, item domain.TransactionItem, actorID string) (*domain.Transaction, error) {
	var result *domain.Transaction

	err := r.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		header, err := lockTransactionTx(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if header.Status != domain.StatusDraft {
			return fmt.Errorf("%w: transaction %s is %s", apperrors.ErrInvalidState, transactionID, header.Status)
		}

		query := `
			INSERT INTO transaction_items (` + transactionItemColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (transaction_id, product_id)
			DO UPDATE SET quantity = EXCLUDED.quantity, unit_price = EXCLUDED.unit_price, subtotal = EXCLUDED.subtotal;
		`
		if _, err := tx.Exec(ctx, query,
			item.ItemID,
			transactionID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.Subtotal,
		); err != nil {
			return fmt.Errorf("failed to upsert item for transaction %s: %w", transactionID, err)
		}

		updated, err := recomputeTotalTx(ctx, tx, transactionID, actorID)
		if err != nil {
			return err
		}
		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		result = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItemFromDraft deletes one line of a DRAFT transaction and recomputes
// the header total.
func (r *PgxTransactionRepository) RemoveItemFromDraft(ctx context.Context, transactionID, productID, actorID string) (*domain.Transaction, error) {
	var result *domain.Transaction

	err := r.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		header, err := lockTransactionTx(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if header.Status != domain.StatusDraft {
			return fmt.Errorf("%w: transaction %s is %s", apperrors.ErrInvalidState, transactionID, header.Status)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM transaction_items WHERE transaction_id = $1 AND product_id = $2;`, transactionID, productID)
		if err != nil {
			return fmt.Errorf("failed to remove item from transaction %s: %w", transactionID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: product %s not on transaction %s", apperrors.ErrNotFound, productID, transactionID)
		}

		updated, err := recomputeTotalTx(ctx, tx, transactionID, actorID)
		if err != nil {
			return err
		}
		if err := r.Commit(ctx, tx); err != nil {
			return err
		}
		result = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteTransaction performs the completion atomic unit. Everything
// happens inside one database transaction: the DRAFT to COMPLETED
// transition, the per-item stock ledger appends with locked before/after
// quantities, the cached quantity decrements, and the sale's drawer inflow.
// A failure at any step rolls back every side effect.
func (r *PgxTransactionRepository) CompleteTransaction(ctx context.Context, transactionID string, paymentMethod domain.PaymentMethod, paymentAmount decimal.Decimal, actorID string) (*domain.Transaction, error) {
	var result *domain.Transaction

	err := r.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		header, err := lockTransactionTx(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if header.Status != domain.StatusDraft {
			return fmt.Errorf("%w: transaction %s is %s", apperrors.ErrInvalidState, transactionID, header.Status)
		}

		items, err := fetchItemsTx(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: transaction %s has no items", apperrors.ErrValidation, transactionID)
		}

		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.Subtotal)
		}

		changeAmount := decimal.Zero
		if paymentMethod == domain.PaymentCash {
			if paymentAmount.LessThan(total) {
				return fmt.Errorf("%w: tendered %s, total %s", apperrors.ErrPaymentInsufficient, paymentAmount, total)
			}
			changeAmount = paymentAmount.Sub(total)
		} else {
			// Non-cash settlements are exact by definition.
			paymentAmount = total
		}

		drawer, err := lockOpenDrawerByCashierTx(ctx, tx, header.CashierID)
		if err != nil {
			return err
		}

		productIDs := make([]string, len(items))
		for i, item := range items {
			productIDs[i] = item.ProductID
		}
		locked, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs)
		if err != nil {
			return err
		}

		now := time.Now()
		movements := make([]domain.StockMovement, 0, len(items))
		deltas := make(map[string]int64, len(items))
		for _, item := range items {
			product := locked[item.ProductID]
			after, err := stockmath.NextQuantity(product.Quantity, domain.MovementOut, item.Quantity, product.TrackStock)
			if err != nil {
				if errors.Is(err, apperrors.ErrNegativeStock) {
					return fmt.Errorf("%w: product %s has %d on hand, sale needs %d",
						apperrors.ErrInsufficientStock, item.ProductID, product.Quantity, item.Quantity)
				}
				return err
			}
			movements = append(movements, domain.StockMovement{
				MovementID:    uuid.NewString(),
				ProductID:     item.ProductID,
				MovementType:  domain.MovementOut,
				Quantity:      item.Quantity,
				BeforeQty:     product.Quantity,
				AfterQty:      after,
				ReferenceType: domain.ReferenceSale,
				ReferenceID:   transactionID,
				CreatedAt:     now,
				CreatedBy:     actorID,
			})
			deltas[item.ProductID] = after - product.Quantity
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
			EntryType:     domain.EntryCashIn,
			Amount:        total,
			ReferenceType: domain.DrawerRefSale,
			ReferenceID:   transactionID,
			CreatedAt:     now,
			CreatedBy:     actorID,
		}); err != nil {
			return err
		}

		updateQuery := `
			UPDATE transactions
			SET status = 'COMPLETED', total = $2, payment_method = $3, payment_amount = $4,
			    change_amount = $5, completed_at = $6, last_updated_at = $6, last_updated_by = $7
			WHERE transaction_id = $1 AND status = 'DRAFT'
			RETURNING ` + transactionColumns + `;
		`
		m, err := scanTransaction(tx.QueryRow(ctx, updateQuery,
			transactionID, total, string(paymentMethod), paymentAmount, changeAmount, now, actorID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: transaction %s changed state concurrently", apperrors.ErrInvalidState, transactionID)
			}
			return fmt.Errorf("failed to complete transaction %s: %w", transactionID, err)
		}
		if err := r.Commit(ctx, tx); err != nil {
			return err
		}

		updated := mapping.ToDomainTransaction(m)
		updated.Items = items
		result = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Completed transaction",
		"transaction_id", transactionID,
		"total", result.Total,
		"payment_method", paymentMethod,
		"change_amount", result.ChangeAmount,
	)
	return result, nil
}

// LockTransaction transitions DRAFT or COMPLETED to LOCKED via CAS. Locking
// an already LOCKED transaction is a no-op.
func (r *PgxTransactionRepository) LockTransaction(ctx context.Context, transactionID, actorID string) error {
	query := `
		UPDATE transactions
		SET status = 'LOCKED', last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND status IN ('DRAFT', 'COMPLETED');
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, time.Now(), actorID)
	if err != nil {
		return fmt.Errorf("failed to lock transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() > 0 {
		slog.InfoContext(ctx, "Locked transaction", "transaction_id", transactionID, "locked_by", actorID)
		return nil
	}

	existing, err := r.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if existing.Status == domain.StatusLocked {
		return nil
	}
	// Unreachable with the current status set; kept as a CAS safety net.
	return fmt.Errorf("%w: transaction %s is %s", apperrors.ErrInvalidState, transactionID, existing.Status)
}

// DeleteTransaction removes a transaction of any status. A COMPLETED or
// LOCKED transaction first gets compensating ledger entries restoring the
// stock it consumed, net of quantities already restored by returns. When
// reverseDrawer is set, the sale's cash inflow is also reversed against the
// original drawer, provided that drawer is still open.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID, actorID string, reverseDrawer bool) error {
	return r.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		header, err := lockTransactionTx(ctx, tx, transactionID)
		if err != nil {
			return err
		}

		if header.Status.IsTerminal() {
			if err := r.compensateStockTx(ctx, tx, transactionID, actorID); err != nil {
				return err
			}
			if reverseDrawer {
				if err := r.reverseDrawerInflowTx(ctx, tx, transactionID, actorID); err != nil {
					return err
				}
			}
		}

		// Items, returns, and return items cascade from the header.
		if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID); err != nil {
			return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
		}
		if err := r.Commit(ctx, tx); err != nil {
			return err
		}

		slog.InfoContext(ctx, "Deleted transaction",
			"transaction_id", transactionID,
			"prior_status", header.Status,
			"deleted_by", actorID,
		)
		return nil
	})
}

// compensateStockTx appends IN/ADJUSTMENT entries restoring what the sale
// consumed, net of quantities already restored by returns. The caller holds
// the header lock in tx.
func (r *PgxTransactionRepository) compensateStockTx(ctx context.Context, tx pgx.Tx, transactionID, actorID string) error {
	items, err := fetchItemsTx(ctx, tx, transactionID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	returned, err := sumReturnedQuantitiesTx(ctx, tx, transactionID)
	if err != nil {
		return err
	}

	productIDs := make([]string, 0, len(items))
	restore := make(map[string]int64, len(items))
	for _, item := range items {
		qty := item.Quantity - returned[item.ProductID]
		if qty > 0 {
			restore[item.ProductID] = qty
			productIDs = append(productIDs, item.ProductID)
		}
	}
	if len(restore) == 0 {
		return nil
	}

	locked, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs)
	if err != nil {
		return err
	}

	now := time.Now()
	movements := make([]domain.StockMovement, 0, len(restore))
	deltas := make(map[string]int64, len(restore))
	for _, productID := range productIDs {
		product := locked[productID]
		qty := restore[productID]
		movements = append(movements, domain.StockMovement{
			MovementID:    uuid.NewString(),
			ProductID:     productID,
			MovementType:  domain.MovementIn,
			Quantity:      qty,
			BeforeQty:     product.Quantity,
			AfterQty:      product.Quantity + qty,
			ReferenceType: domain.ReferenceAdjustment,
			ReferenceID:   transactionID,
			Notes:         "reversal of deleted transaction",
			CreatedAt:     now,
			CreatedBy:     actorID,
		})
		deltas[productID] = qty
	}

	if err := r.ledgerRepo.InsertMovementsInTx(ctx, tx, movements); err != nil {
		return err
	}
	return r.productRepo.ApplyQuantityDeltasInTx(ctx, tx, deltas)
}

// reverseDrawerInflowTx appends a CASH_OUT entry undoing the sale's inflow
// on the drawer that recorded it. A closed or missing drawer is skipped:
// its reconciliation already happened and must not be rewritten.
func (r *PgxTransactionRepository) reverseDrawerInflowTx(ctx context.Context, tx pgx.Tx, transactionID, actorID string) error {
	query := `
		SELECT drawer_id, amount FROM drawer_entries
		WHERE reference_type = 'SALE' AND reference_id = $1 AND entry_type = 'CASH_IN'
		ORDER BY created_at ASC LIMIT 1;
	`
	var drawerID string
	var amount decimal.Decimal
	if err := tx.QueryRow(ctx, query, transactionID).Scan(&drawerID, &amount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to find sale drawer entry for transaction %s: %w", transactionID, err)
	}

	drawer, err := lockDrawerTx(ctx, tx, drawerID)
	if err != nil {
		return err
	}
	if drawer.Status != domain.DrawerOpen {
		slog.WarnContext(ctx, "Skipping drawer reversal, drawer no longer open",
			"transaction_id", transactionID, "drawer_id", drawerID)
		return nil
	}

	return appendDrawerEntryTx(ctx, tx, domain.DrawerEntry{
		EntryID:       uuid.NewString(),
		DrawerID:      drawerID,
		EntryType:     domain.EntryCashOut,
		Amount:        amount,
		ReferenceType: domain.DrawerRefManual,
		ReferenceID:   transactionID,
		Notes:         "reversal of deleted transaction",
		CreatedAt:     time.Now(),
		CreatedBy:     actorID,
	})
}

// ListStaleDraftIDs returns IDs of DRAFT transactions created before the
// cutoff, oldest first.
func (r *PgxTransactionRepository) ListStaleDraftIDs(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT transaction_id FROM transactions
		WHERE status = 'DRAFT' AND created_at < $1
		ORDER BY created_at ASC LIMIT $2;
	`
	rows, err := r.Pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale drafts: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan stale draft ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stale draft rows: %w", err)
	}
	return ids, nil
}

// sumReturnedQuantitiesTx reports cumulative returned quantity per product
// for one transaction, readable inside or outside a repository transaction.
func sumReturnedQuantitiesTx(ctx context.Context, q interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}, transactionID string) (map[string]int64, error) {
	query := `
		SELECT ri.product_id, COALESCE(SUM(ri.quantity), 0)
		FROM return_items ri
		JOIN returns r ON r.return_id = ri.return_id
		WHERE r.transaction_id = $1
		GROUP BY ri.product_id;
	`
	rows, err := q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query returned quantities for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	sums := map[string]int64{}
	for rows.Next() {
		var productID string
		var qty int64
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("failed to scan returned quantity row: %w", err)
		}
		sums[productID] = qty
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating returned quantity rows: %w", err)
	}
	return sums, nil
}
