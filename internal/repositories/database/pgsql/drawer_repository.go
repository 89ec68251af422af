package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	"github.com/kasirone/kasir_pos_app/internal/models"
	"github.com/kasirone/kasir_pos_app/internal/utils/mapping"
	"github.com/kasirone/kasir_pos_app/internal/utils/pagination"
)

const drawerColumns = `drawer_id, cashier_id, opening_balance, cash_in, cash_out, counted_amount, difference, status, notes, opened_at, closed_at`
const drawerEntryColumns = `entry_id, drawer_id, entry_type, amount, reference_type, reference_id, notes, created_at, created_by`

type PgxDrawerRepository struct {
	BaseRepository
}

// newPgxDrawerRepository creates the repository for cash drawer shifts.
func newPgxDrawerRepository(pool *pgxpool.Pool) portsrepo.DrawerRepository {
	return &PgxDrawerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DrawerRepository = (*PgxDrawerRepository)(nil)

func scanDrawer(row pgx.Row) (models.CashDrawer, error) {
	var m models.CashDrawer
	err := row.Scan(
		&m.DrawerID,
		&m.CashierID,
		&m.OpeningBalance,
		&m.CashIn,
		&m.CashOut,
		&m.CountedAmount,
		&m.Difference,
		&m.Status,
		&m.Notes,
		&m.OpenedAt,
		&m.ClosedAt,
	)
	return m, err
}

func scanDrawerEntry(row pgx.Row) (models.DrawerEntry, error) {
	var m models.DrawerEntry
	err := row.Scan(
		&m.EntryID,
		&m.DrawerID,
		&m.EntryType,
		&m.Amount,
		&m.ReferenceType,
		&m.ReferenceID,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
	)
	return m, err
}

// lockDrawerTx locks a drawer row for the duration of tx.
func lockDrawerTx(ctx context.Context, tx pgx.Tx, drawerID string) (domain.CashDrawer, error) {
	query := `SELECT ` + drawerColumns + ` FROM cash_drawers WHERE drawer_id = $1 FOR UPDATE;`
	m, err := scanDrawer(tx.QueryRow(ctx, query, drawerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CashDrawer{}, fmt.Errorf("%w: drawer %s", apperrors.ErrNotFound, drawerID)
		}
		return domain.CashDrawer{}, fmt.Errorf("failed to lock drawer %s: %w", drawerID, err)
	}
	return mapping.ToDomainCashDrawer(m), nil
}

// lockOpenDrawerByCashierTx locks the cashier's open drawer row for the
// duration of tx. At most one such row can exist per cashier.
func lockOpenDrawerByCashierTx(ctx context.Context, tx pgx.Tx, cashierID string) (domain.CashDrawer, error) {
	query := `SELECT ` + drawerColumns + ` FROM cash_drawers WHERE cashier_id = $1 AND status = 'OPEN' FOR UPDATE;`
	m, err := scanDrawer(tx.QueryRow(ctx, query, cashierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CashDrawer{}, fmt.Errorf("%w: cashier %s", apperrors.ErrNoOpenDrawer, cashierID)
		}
		return domain.CashDrawer{}, fmt.Errorf("failed to lock open drawer for cashier %s: %w", cashierID, err)
	}
	return mapping.ToDomainCashDrawer(m), nil
}

// appendDrawerEntryTx inserts an entry and bumps the matching running total.
// The caller must already hold the drawer's row lock in tx.
func appendDrawerEntryTx(ctx context.Context, tx pgx.Tx, entry domain.DrawerEntry) error {
	insertQuery := `
		INSERT INTO drawer_entries (` + drawerEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		entry.EntryID,
		entry.DrawerID,
		string(entry.EntryType),
		entry.Amount,
		string(entry.ReferenceType),
		entry.ReferenceID,
		entry.Notes,
		entry.CreatedAt,
		entry.CreatedBy,
	); err != nil {
		return fmt.Errorf("failed to insert drawer entry %s: %w", entry.EntryID, err)
	}

	column := "cash_in"
	if entry.EntryType == domain.EntryCashOut {
		column = "cash_out"
	}
	updateQuery := `UPDATE cash_drawers SET ` + column + ` = ` + column + ` + $2 WHERE drawer_id = $1;`
	if _, err := tx.Exec(ctx, updateQuery, entry.DrawerID, entry.Amount); err != nil {
		return fmt.Errorf("failed to update drawer totals for %s: %w", entry.DrawerID, err)
	}
	return nil
}

// OpenDrawer inserts a new OPEN drawer for a cashier.
func (r *PgxDrawerRepository) OpenDrawer(ctx context.Context, drawer domain.CashDrawer) error {
	m := mapping.ToModelCashDrawer(drawer)

	query := `
		INSERT INTO cash_drawers (` + drawerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DrawerID,
		m.CashierID,
		m.OpeningBalance,
		m.CashIn,
		m.CashOut,
		m.CountedAmount,
		m.Difference,
		m.Status,
		m.Notes,
		m.OpenedAt,
		m.ClosedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Partial unique index over (cashier_id) WHERE status = 'OPEN'.
			return fmt.Errorf("%w: cashier %s", apperrors.ErrDrawerAlreadyOpen, m.CashierID)
		}
		return fmt.Errorf("failed to open drawer for cashier %s: %w", m.CashierID, err)
	}

	slog.InfoContext(ctx, "Opened cash drawer", "drawer_id", m.DrawerID, "cashier_id", m.CashierID)
	return nil
}

// FindDrawerByID retrieves a drawer by its ID.
func (r *PgxDrawerRepository) FindDrawerByID(ctx context.Context, drawerID string) (*domain.CashDrawer, error) {
	query := `SELECT ` + drawerColumns + ` FROM cash_drawers WHERE drawer_id = $1;`
	m, err := scanDrawer(r.Pool.QueryRow(ctx, query, drawerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find drawer %s: %w", drawerID, err)
	}
	d := mapping.ToDomainCashDrawer(m)
	return &d, nil
}

// FindOpenDrawerByCashier retrieves the cashier's open drawer, if any.
func (r *PgxDrawerRepository) FindOpenDrawerByCashier(ctx context.Context, cashierID string) (*domain.CashDrawer, error) {
	query := `SELECT ` + drawerColumns + ` FROM cash_drawers WHERE cashier_id = $1 AND status = 'OPEN';`
	m, err := scanDrawer(r.Pool.QueryRow(ctx, query, cashierID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cashier %s", apperrors.ErrNoOpenDrawer, cashierID)
		}
		return nil, fmt.Errorf("failed to find open drawer for cashier %s: %w", cashierID, err)
	}
	d := mapping.ToDomainCashDrawer(m)
	return &d, nil
}

// RecordEntry appends a manual cash entry and bumps the running totals under
// the drawer's row lock. Returns the drawer with updated totals.
func (r *PgxDrawerRepository) RecordEntry(ctx context.Context, entry domain.DrawerEntry) (*domain.CashDrawer, error) {
	var result *domain.CashDrawer

	err := r.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		drawer, err := lockDrawerTx(ctx, tx, entry.DrawerID)
		if err != nil {
			return err
		}
		if drawer.Status != domain.DrawerOpen {
			return fmt.Errorf("%w: drawer %s is %s", apperrors.ErrInvalidState, drawer.DrawerID, drawer.Status)
		}

		if err := appendDrawerEntryTx(ctx, tx, entry); err != nil {
			return err
		}

		updated, err := lockDrawerTx(ctx, tx, entry.DrawerID)
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

	slog.InfoContext(ctx, "Recorded drawer entry",
		"entry_id", entry.EntryID,
		"drawer_id", entry.DrawerID,
		"entry_type", entry.EntryType,
		"amount", entry.Amount,
	)
	return result, nil
}

// CloseDrawer computes the expected balance under the drawer's row lock,
// records the counted difference, and transitions OPEN to CLOSED.
func (r *PgxDrawerRepository) CloseDrawer(ctx context.Context, drawerID string, countedAmount decimal.Decimal, notes, actorID string) (*domain.CashDrawer, error) {
	var result *domain.CashDrawer

	err := r.withConflictRetry(ctx, func(ctx context.Context) error {
		tx, err := r.Begin(ctx)
		if err != nil {
			return err
		}
		defer r.Rollback(ctx, tx)

		drawer, err := lockDrawerTx(ctx, tx, drawerID)
		if err != nil {
			return err
		}
		if drawer.Status != domain.DrawerOpen {
			return fmt.Errorf("%w: drawer %s is already %s", apperrors.ErrInvalidState, drawerID, drawer.Status)
		}

		expected := drawer.ExpectedBalance()
		difference := countedAmount.Sub(expected)
		now := time.Now()

		query := `
			UPDATE cash_drawers
			SET status = 'CLOSED', counted_amount = $2, difference = $3, notes = $4, closed_at = $5
			WHERE drawer_id = $1 AND status = 'OPEN';
		`
		cmdTag, err := tx.Exec(ctx, query, drawerID, countedAmount, difference, notes, now)
		if err != nil {
			return fmt.Errorf("failed to close drawer %s: %w", drawerID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: drawer %s changed state concurrently", apperrors.ErrInvalidState, drawerID)
		}
		if err := r.Commit(ctx, tx); err != nil {
			return err
		}

		drawer.Status = domain.DrawerClosed
		drawer.CountedAmount = countedAmount
		drawer.Difference = difference
		drawer.Notes = notes
		drawer.ClosedAt = &now
		result = &drawer
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Closed cash drawer",
		"drawer_id", drawerID,
		"counted_amount", countedAmount,
		"difference", result.Difference,
		"closed_by", actorID,
	)
	return result, nil
}

// ListEntriesByDrawer retrieves a token-paginated slice of a drawer's cash
// ledger, newest first.
func (r *PgxDrawerRepository) ListEntriesByDrawer(ctx context.Context, drawerID string, limit int, nextToken *string) ([]domain.DrawerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + drawerEntryColumns + ` FROM drawer_entries WHERE drawer_id = $1`
	args := []interface{}{drawerID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastCreatedAt, lastID)
		query += ` AND (created_at, entry_id) < ($2, $3)`
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY created_at DESC, entry_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query drawer entries", err)
	}
	defer rows.Close()

	modelEntries := make([]models.DrawerEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanDrawerEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan drawer entry row", scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating drawer entry rows", err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainDrawerEntrySlice(results), nextTokenVal, nil
}

// ListDrawers retrieves a token-paginated drawer history, newest first,
// optionally filtered to one cashier.
func (r *PgxDrawerRepository) ListDrawers(ctx context.Context, cashierID *string, limit int, nextToken *string) ([]domain.CashDrawer, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + drawerColumns + ` FROM cash_drawers WHERE 1=1`
	args := []interface{}{}

	if cashierID != nil && *cashierID != "" {
		args = append(args, *cashierID)
		query += ` AND cashier_id = $` + strconv.Itoa(len(args))
	}
	if nextToken != nil && *nextToken != "" {
		lastOpenedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastOpenedAt, lastID)
		query += ` AND (opened_at, drawer_id) < ($` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}
	args = append(args, fetchLimit)
	query += ` ORDER BY opened_at DESC, drawer_id DESC LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query drawers", err)
	}
	defer rows.Close()

	modelDrawers := make([]models.CashDrawer, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanDrawer(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan drawer row", scanErr)
		}
		modelDrawers = append(modelDrawers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating drawer rows", err)
	}

	var nextTokenVal *string
	results := modelDrawers
	if len(modelDrawers) > limit {
		last := modelDrawers[limit-1]
		token := pagination.EncodeToken(last.OpenedAt, last.DrawerID)
		nextTokenVal = &token
		results = modelDrawers[:limit]
	}

	domainDrawers := make([]domain.CashDrawer, len(results))
	for i, m := range results {
		domainDrawers[i] = mapping.ToDomainCashDrawer(m)
	}
	return domainDrawers, nextTokenVal, nil
}
