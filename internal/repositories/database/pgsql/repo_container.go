package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	productRepo := newPgxProductRepository(dbPool)
	stockLedgerRepo := newPgxStockLedgerRepository(dbPool, productRepo)
	transactionRepo := newPgxTransactionRepository(dbPool, productRepo, stockLedgerRepo)
	drawerRepo := newPgxDrawerRepository(dbPool)
	returnRepo := newPgxReturnRepository(dbPool, productRepo, stockLedgerRepo)

	return portsrepo.RepositoryProvider{
		ProductRepo:     productRepo,
		StockLedgerRepo: stockLedgerRepo,
		TransactionRepo: transactionRepo,
		DrawerRepo:      drawerRepo,
		ReturnRepo:      returnRepo,
	}
}
