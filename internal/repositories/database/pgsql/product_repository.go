package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kasirone/kasir_pos_app/internal/apperrors"
	"github.com/kasirone/kasir_pos_app/internal/core/domain"
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	"github.com/kasirone/kasir_pos_app/internal/models"
	"github.com/kasirone/kasir_pos_app/internal/utils/mapping"
	"github.com/kasirone/kasir_pos_app/internal/utils/pagination"
)

const productColumns = `product_id, sku, name, price, quantity, min_stock, track_stock, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxProductRepository struct {
	pool *pgxpool.Pool
}

// newPgxProductRepository creates a new repository for catalog data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepository {
	return &PgxProductRepository{pool: pool}
}

var _ portsrepo.ProductRepository = (*PgxProductRepository)(nil)

func scanProduct(row pgx.Row) (models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.SKU,
		&m.Name,
		&m.Price,
		&m.Quantity,
		&m.MinStock,
		&m.TrackStock,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		m.ProductID,
		m.SKU,
		m.Name,
		m.Price,
		m.Quantity,
		m.MinStock,
		m.TrackStock,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return fmt.Errorf("%w: product with SKU %s already exists", apperrors.ErrDuplicate, m.SKU)
		}
		return fmt.Errorf("failed to save product %s: %w", m.ProductID, err)
	}
	return nil
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`

	m, err := scanProduct(r.pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}

	d := mapping.ToDomainProduct(m)
	return &d, nil
}

// FindProductsByIDs retrieves multiple products by their IDs.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1);`

	rows, err := r.pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row during batch fetch: %w", err)
		}
		productsMap[m.ProductID] = mapping.ToDomainProduct(m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows during batch fetch: %w", err)
	}

	return productsMap, nil
}

// UpdateProduct updates the mutable catalog fields of a product. Quantity is
// deliberately excluded: it only changes alongside a ledger append.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)

	query := `
		UPDATE products
		SET name = $2, price = $3, min_stock = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE product_id = $1;
	`
	cmdTag, err := r.pool.Exec(ctx, query,
		m.ProductID,
		m.Name,
		m.Price,
		m.MinStock,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update product %s: %w", m.ProductID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListProducts retrieves a token-paginated list of products, newest first.
func (r *PgxProductRepository) ListProducts(ctx context.Context, limit int, nextToken *string, activeOnly bool) ([]domain.Product, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + productColumns + ` FROM products`
	filterClause := `WHERE 1=1`
	if activeOnly {
		filterClause += ` AND is_active = TRUE`
	}
	orderByClause := `ORDER BY created_at DESC, product_id DESC`

	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		filterClause += ` AND (created_at, product_id) < ($1, $2)`
		args = append(args, lastCreatedAt, lastID)
	}

	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query products", err)
	}
	defer rows.Close()

	modelProducts := make([]models.Product, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan product row", scanErr)
		}
		modelProducts = append(modelProducts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating product rows", err)
	}

	var nextTokenVal *string
	results := modelProducts
	if len(modelProducts) > limit {
		last := modelProducts[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.ProductID)
		nextTokenVal = &token
		results = modelProducts[:limit]
	}

	domainProducts := make([]domain.Product, len(results))
	for i, m := range results {
		domainProducts[i] = mapping.ToDomainProduct(m)
	}
	return domainProducts, nextTokenVal, nil
}

// ListLowStock retrieves active, stock-tracked products at or below their
// minimum stock threshold.
func (r *PgxProductRepository) ListLowStock(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active = TRUE AND track_stock = TRUE AND quantity <= min_stock
		ORDER BY quantity ASC, name;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query low stock products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		m, scanErr := scanProduct(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan low stock product row: %w", scanErr)
		}
		products = append(products, mapping.ToDomainProduct(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating low stock product rows: %w", err)
	}
	return products, nil
}

// FindProductsByIDsForUpdate retrieves multiple products by IDs and locks the
// rows for the duration of tx. IDs are locked in sorted order so concurrent
// multi-product writers cannot deadlock against each other.
func (r *PgxProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	sortedIDs := make([]string, len(productIDs))
	copy(sortedIDs, productIDs)
	sort.Strings(sortedIDs)

	productsMap := make(map[string]domain.Product, len(sortedIDs))
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1 FOR UPDATE;`

	// One row at a time in sorted order; ANY($1) FOR UPDATE does not
	// guarantee lock acquisition order.
	for _, id := range sortedIDs {
		m, err := scanProduct(tx.QueryRow(ctx, query, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				slog.WarnContext(ctx, "Product requested for update lock was not found", "product_id", id)
				return nil, fmt.Errorf("%w: product %s", apperrors.ErrNotFound, id)
			}
			return nil, fmt.Errorf("failed to lock product %s: %w", id, err)
		}
		productsMap[m.ProductID] = mapping.ToDomainProduct(m)
	}

	return productsMap, nil
}

// ApplyQuantityDeltasInTx additively updates cached quantities for rows
// previously locked in the same tx.
func (r *PgxProductRepository) ApplyQuantityDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE products
		SET quantity = quantity + $2
		WHERE product_id = $1;
	`

	batch := &pgx.Batch{}
	productIDs := make([]string, 0, len(deltas))
	for productID, delta := range deltas {
		if delta != 0 {
			batch.Queue(query, productID, delta)
			productIDs = append(productIDs, productID)
		}
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update quantity for product %s: %w", productIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 {
			if batchErr == nil {
				batchErr = fmt.Errorf("%w: product %s not found during quantity update", apperrors.ErrNotFound, productIDs[i])
			}
		}
	}

	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close quantity update batch: %w", err)
	}
	return batchErr
}
