package repositories

// RepositoryProvider bundles all repository implementations for injection
// into the service container.
type RepositoryProvider struct {
	ProductRepo     ProductRepository
	StockLedgerRepo StockLedgerRepository
	TransactionRepo TransactionRepository
	DrawerRepo      DrawerRepository
	ReturnRepo      ReturnRepository
}
