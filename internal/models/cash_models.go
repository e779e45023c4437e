package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cash movement kinds. Only withdrawals are recorded in the current scope;
// the CHECK constraint on the table mirrors this.
const (
	MovementKindWithdrawal = "withdrawal"
)

// CashMovement is a manual drawer movement recorded by an operator.
type CashMovement struct {
	ID        int64           `json:"id" db:"id"`
	Kind      string          `json:"kind" db:"kind"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Memo      string          `json:"memo" db:"memo"`
	Operator  string          `json:"operator" db:"operator"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// DailySummary is the drawer-close report for a single calendar day.
type DailySummary struct {
	Date             string          `json:"date"`
	SalesCount       int             `json:"sales_count"`
	SalesTotal       decimal.Decimal `json:"sales_total"`
	WithdrawalsTotal decimal.Decimal `json:"withdrawals_total"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}
