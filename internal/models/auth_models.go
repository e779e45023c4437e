package models

import "time"

// Operator roles. A flat role column is enough for a single-terminal kiosk;
// there is no separate roles table.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// Operator represents a back-office user who can log in and drive the
// terminal. The operator's username is stamped on sales and cash movements.
type Operator struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
