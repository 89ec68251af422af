package models

import "github.com/shopspring/decimal"

// Product is the persistence model for catalog items. Quantity is the cached
// materialization of the stock ledger, only written alongside a ledger append.
type Product struct {
	ProductID  string          `db:"product_id"`
	SKU        string          `db:"sku"`
	Name       string          `db:"name"`
	Price      decimal.Decimal `db:"price"`
	Quantity   int64           `db:"quantity"`
	MinStock   int64           `db:"min_stock"`
	TrackStock bool            `db:"track_stock"`
	IsActive   bool            `db:"is_active"`
	AuditFields
}
