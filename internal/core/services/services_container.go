package services

import (
	portsrepo "github.com/kasirone/kasir_pos_app/internal/core/ports/repositories"
	portssvc "github.com/kasirone/kasir_pos_app/internal/core/ports/services"
	"github.com/kasirone/kasir_pos_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Product = NewProductService(repos.ProductRepo, repos.StockLedgerRepo)
	container.Stock = NewStockService(repos.StockLedgerRepo, repos.ProductRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.ProductRepo, cfg.ReverseDrawerOnDelete)
	container.Drawer = NewDrawerService(repos.DrawerRepo)
	container.Return = NewReturnService(repos.ReturnRepo, repos.TransactionRepo)
	container.Report = NewReportService(repos.ProductRepo, repos.StockLedgerRepo, repos.DrawerRepo)

	return container
}
