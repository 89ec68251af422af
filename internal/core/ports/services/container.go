package services

// ServiceContainer holds all service facades for injection into handlers
// and the scheduler.
type ServiceContainer struct {
	Product     ProductSvcFacade
	Stock       StockSvcFacade
	Transaction TransactionSvcFacade
	Drawer      DrawerSvcFacade
	Return      ReturnSvcFacade
	Report      ReportSvcFacade
}
