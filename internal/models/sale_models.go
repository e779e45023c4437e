package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a committed checkout transaction.
type Sale struct {
	ID            int64           `json:"id" db:"id"`
	Reference     string          `json:"reference" db:"reference"`
	Total         decimal.Decimal `json:"total" db:"total"`
	PaymentMethod string          `json:"payment_method" db:"payment_method"`
	Operator      string          `json:"operator" db:"operator"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	LineItems     []SaleLineItem  `json:"line_items,omitempty"`
}

// SaleLineItem is an immutable snapshot of a product at the moment of sale.
// Later price or name changes on the live product row do not alter it.
type SaleLineItem struct {
	ID          int64           `json:"id" db:"id"`
	SaleID      int64           `json:"sale_id" db:"sale_id"`
	ProductID   int64           `json:"product_id" db:"product_id"`
	SKU         string          `json:"sku" db:"sku"`
	ProductName string          `json:"product_name" db:"product_name"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal" db:"subtotal"`
}
