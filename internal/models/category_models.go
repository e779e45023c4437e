package models

import "time"

// Category groups products and owns the SKU prefix used to generate product
// codes. Categories are soft-deleted: deactivating one leaves existing
// products (which carry a denormalized copy of the name) untouched.
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Prefix      string    `json:"prefix" db:"prefix" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
