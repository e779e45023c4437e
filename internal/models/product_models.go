package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. CategoryLabel is a free-text copy of the
// category name rather than a foreign key, so products survive category
// renames and deactivation.
type Product struct {
	ID            int64           `json:"id" db:"id"`
	SKU           string          `json:"sku" db:"sku"`
	Name          string          `json:"name" db:"name" binding:"required"`
	Description   *string         `json:"description,omitempty" db:"description"`
	Quantity      int             `json:"quantity" db:"quantity"`
	Price         decimal.Decimal `json:"price" db:"price"`
	MinStock      int             `json:"min_stock" db:"min_stock"`
	CategoryLabel string          `json:"category_label" db:"category_label"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// IsLowStock reports whether the quantity on hand has fallen to or below the
// configured minimum threshold.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.MinStock
}
