package domain

import "github.com/shopspring/decimal"

// Product represents a sellable item in the catalog.
//
// Quantity is a cached materialization of the stock ledger: it must always
// equal the opening inventory plus the signed sum of all StockMovement rows
// referencing the product. It is only ever written inside the same database
// transaction as a ledger append.
type Product struct {
	ProductID  string          `json:"productID"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	MinStock   int64           `json:"minStock"`
	TrackStock bool            `json:"trackStock"`
	IsActive   bool            `json:"isActive"`
	AuditFields
}
