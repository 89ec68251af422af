package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	"github.com/kasirone/kasir_pos_app/internal/models"
	"github.com/kasirone/kasir_pos_app/internal/utils/mapping"
	"github.com/kasirone/kasir_pos_app/internal/utils/pagination"
	"github.com/kasirone/kasir_pos_app/internal/utils/stockmath"
)

const movementColumns = `movement_id, product_id, movement_type, quantity, before_qty, after_qty, reference_type, reference_id, notes, created_at, created_by`

type PgxStockLedgerRepository struct {
	BaseRepository
	productRepo portsrepo.ProductRepository
}

// newPgxStockLedgerRepository creates the repository that owns all stock
// ledger appends.
func newPgxStockLedgerRepository(pool *pgxpool.Pool, productRepo portsrepo.ProductRepository) portsrepo.StockLedgerRepository {
	return &PgxStockLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
	}
}

var _ portsrepo.StockLedgerRepository = (*PgxStockLedgerRepository)(nil)

func scanMovement(row pgx.Row) (models.StockMovement, error) {
	var m models.StockMovement
	err := row.Scan(
		&m.MovementID,
		&m.ProductID,
		&m.MovementType,
		&m.Quantity,
		&m.BeforeQty,
		&m.AfterQty,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

// RecordMovement appends one ledger entry and applies it to the cached
// quantity atomically. The before/after quantities are read and computed
// under the product's row lock so concurrent movements serialize into a
// consistent chain.
func (r *PgxStockLedgerRepository) RecordMovement(ctx context.Context, productID string, movementType domain.MovementType, quantity int64, referenceType domain.ReferenceType, referenceID, notes, actorID string) (*domain.StockMovement, error) {
	var result *domain.StockMovement

	err := r.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		locked, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, []string{productID})
		if err != nil {
			return err
		}
		product := locked[productID]

		after, err := stockmath.NextQuantity(product.Quantity, movementType, quantity, product.TrackStock)
		if err != nil {
			return err
		}

		now := time.Now()
		movement := domain.StockMovement{
			MovementID:    uuid.NewString(),
			ProductID:     productID,
			MovementType:  movementType,
			Quantity:      quantity,
			BeforeQty:     product.Quantity,
			AfterQty:      after,
			ReferenceType: referenceType,
			ReferenceID:   referenceID,
			Notes:         notes,
			CreatedAt:     now,
			CreatedBy:     actorID,
		}
		if err := stockmath.VerifyMovement(movement); err != nil {
			return err
		}

		if err := r.InsertMovementsInTx(ctx, tx, []domain.StockMovement{movement}); err != nil {
			return err
		}
		delta := after - product.Quantity
		if err := r.productRepo.ApplyQuantityDeltasInTx(ctx, tx, map[string]int64{productID: delta}); err != nil {
			return err
		}
		if err := r.Commit(ctx, tx); err != nil {
			return err
		}

		result = &movement
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Recorded stock movement",
		"movement_id", result.MovementID,
		"product_id", productID,
		"movement_type", movementType,
		"after_qty", result.AfterQty,
	)
	return result, nil
}

// RecordOpname reconciles a physical count against the live quantity. The
// delta is computed under the product lock; the counted value arriving stale
// is therefore harmless. A zero delta appends nothing.
func (r *PgxStockLedgerRepository) RecordOpname(ctx context.Context, productID string, countedQty int64, notes, actorID string) (*domain.StockMovement, error) {
	if countedQty < 0 {
		return nil, fmt.Errorf("%w: counted quantity must not be negative", apperrors.ErrValidation)
	}

	var result *domain.StockMovement

	err := r.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		locked, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, []string{productID})
		if err != nil {
			return err
		}
		product := locked[productID]

		delta := countedQty - product.Quantity
		if delta == 0 {
			result = nil
			return nil
		}

		now := time.Now()
		movement := domain.StockMovement{
			MovementID:    uuid.NewString(),
			ProductID:     productID,
			MovementType:  domain.MovementAdjustment,
			Quantity:      delta,
			BeforeQty:     product.Quantity,
			AfterQty:      countedQty,
			ReferenceType: domain.ReferenceOpname,
			ReferenceID:   uuid.NewString(),
			Notes:         notes,
			CreatedAt:     now,
			CreatedBy:     actorID,
		}
		if err := stockmath.VerifyMovement(movement); err != nil {
			return err
		}

		if err := r.InsertMovementsInTx(ctx, tx, []domain.StockMovement{movement}); err != nil {
			return err
		}
		if err := r.productRepo.ApplyQuantityDeltasInTx(ctx, tx, map[string]int64{productID: delta}); err != nil {
			return err
		}
		if err := r.Commit(ctx, tx); err != nil {
			return err
		}

		result = &movement
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		slog.InfoContext(ctx, "Recorded stock opname adjustment",
			"movement_id", result.MovementID,
			"product_id", productID,
			"counted_qty", countedQty,
			"delta", result.Quantity,
		)
	}
	return result, nil
}

// InsertMovementsInTx batch-inserts pre-computed ledger entries inside a
// caller-owned transaction that already holds the product locks.
func (r *PgxStockLedgerRepository) InsertMovementsInTx(ctx context.Context, tx pgx.Tx, movements []domain.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	batch := &pgx.Batch{}
	for _, d := range movements {
		m := mapping.ToModelStockMovement(d)
		batch.Queue(query,
			m.MovementID,
			m.ProductID,
			m.MovementType,
			m.Quantity,
			m.BeforeQty,
			m.AfterQty,
			m.ReferenceType,
			m.ReferenceID,
			m.Notes,
			m.CreatedAt,
			m.CreatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert stock movement %s: %w", movements[i].MovementID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close stock movement batch: %w", err)
	}
	return batchErr
}

// ListMovementsByProduct retrieves a token-paginated ledger slice for one
// product, newest first.
func (r *PgxStockLedgerRepository) ListMovementsByProduct(ctx context.Context, productID string, limit int, nextToken *string, filter domain.MovementFilter) ([]domain.StockMovement, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	var sb strings.Builder
	sb.WriteString(`SELECT ` + movementColumns + ` FROM stock_movements WHERE product_id = $1`)
	args := []interface{}{productID}

	if filter.MovementType != nil {
		args = append(args, string(*filter.MovementType))
		sb.WriteString(` AND movement_type = $` + strconv.Itoa(len(args)))
	}
	if filter.ReferenceType != nil {
		args = append(args, string(*filter.ReferenceType))
		sb.WriteString(` AND reference_type = $` + strconv.Itoa(len(args)))
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		sb.WriteString(` AND (created_at, movement_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`)
	}

	args = append(args, fetchLimit)
	sb.WriteString(` ORDER BY created_at DESC, movement_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`)

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query stock movements", err)
	}
	defer rows.Close()

	modelMovements := make([]models.StockMovement, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanMovement(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan stock movement row", scanErr)
		}
		modelMovements = append(modelMovements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating stock movement rows", err)
	}

	var nextTokenVal *string
	results := modelMovements
	if len(modelMovements) > limit {
		last := modelMovements[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.MovementID)
		nextTokenVal = &token
		results = modelMovements[:limit]
	}

	return mapping.ToDomainStockMovementSlice(results), nextTokenVal, nil
}

// ListMovementsByReference retrieves every ledger entry produced by one
// business event, oldest first.
func (r *PgxStockLedgerRepository) ListMovementsByReference(ctx context.Context, referenceType domain.ReferenceType, referenceID string) ([]domain.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE reference_type = $1 AND reference_id = $2
		ORDER BY created_at ASC, movement_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, string(referenceType), referenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for reference %s/%s: %w", referenceType, referenceID, err)
	}
	defer rows.Close()

	modelMovements := []models.StockMovement{}
	for rows.Next() {
		m, scanErr := scanMovement(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan stock movement row: %w", scanErr)
		}
		modelMovements = append(modelMovements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock movement rows: %w", err)
	}

	return mapping.ToDomainStockMovementSlice(modelMovements), nil
}
