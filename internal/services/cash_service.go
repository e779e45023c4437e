package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"kiosco_pos_backend/internal/models"
	"kiosco_pos_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrInsufficientFunds = errors.New("insufficient funds in register")
)

// --- Data Transfer Objects (DTOs) ---

type RecordWithdrawalRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Memo   string          `json:"memo" binding:"required"`
}

// --- CashService Interface ---
type CashService interface {
	AvailableBalance(day time.Time) (decimal.Decimal, error)
	RecordWithdrawal(req RecordWithdrawalRequest, operator string) (*models.CashMovement, error)
	WithdrawalsForDay(day time.Time) ([]models.CashMovement, error)
	DailySummary(day time.Time) (*models.DailySummary, error)
}

type cashService struct {
	cashRepo repositories.CashMovementRepository
	saleRepo repositories.SaleRepository
	db       *sql.DB
}

// NewCashService creates a new instance of CashService.
func NewCashService(cr repositories.CashMovementRepository, sr repositories.SaleRepository, db *sql.DB) CashService {
	return &cashService{cashRepo: cr, saleRepo: sr, db: db}
}

// AvailableBalance is the day's sales total minus the day's withdrawals. The
// register opens each day at zero; there is no carried-over float.
func (s *cashService) AvailableBalance(day time.Time) (decimal.Decimal, error) {
	salesTotal, err := s.saleRepo.TotalSalesForDay(day)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total sales for day: %w", err)
	}
	withdrawn, err := s.cashRepo.TotalForDay(day, models.MovementKindWithdrawal)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to total withdrawals for day: %w", err)
	}
	return salesTotal.Sub(withdrawn), nil
}

// RecordWithdrawal registers a cash withdrawal against the current day. The
// amount must be positive and must not exceed the available balance at the
// moment of the request.
func (s *cashService) RecordWithdrawal(req RecordWithdrawalRequest, operator string) (*models.CashMovement, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	memo := strings.TrimSpace(req.Memo)
	if memo == "" {
		return nil, fmt.Errorf("%w: memo is required", ErrValidation)
	}

	now := time.Now()
	balance, err := s.AvailableBalance(now)
	if err != nil {
		return nil, err
	}
	if req.Amount.GreaterThan(balance) {
		return nil, fmt.Errorf("%w: available %s, requested %s",
			ErrInsufficientFunds, balance.StringFixed(2), req.Amount.StringFixed(2))
	}

	movement := models.CashMovement{
		Kind:      models.MovementKindWithdrawal,
		Amount:    req.Amount,
		Memo:      memo,
		Operator:  operator,
		CreatedAt: now,
	}
	if _, err := s.cashRepo.Create(s.db, &movement); err != nil {
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}
	return &movement, nil
}

func (s *cashService) WithdrawalsForDay(day time.Time) ([]models.CashMovement, error) {
	movements, err := s.cashRepo.GetForDay(day, models.MovementKindWithdrawal)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdrawals for day: %w", err)
	}
	return movements, nil
}

// DailySummary aggregates the register state for one day: how many sales were
// made, for how much, how much was withdrawn, and what remains.
func (s *cashService) DailySummary(day time.Time) (*models.DailySummary, error) {
	sales, err := s.saleRepo.GetSalesForDay(day)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales for summary: %w", err)
	}

	salesTotal := decimal.Zero
	for _, sale := range sales {
		salesTotal = salesTotal.Add(sale.Total)
	}

	withdrawn, err := s.cashRepo.TotalForDay(day, models.MovementKindWithdrawal)
	if err != nil {
		return nil, fmt.Errorf("failed to total withdrawals for summary: %w", err)
	}

	return &models.DailySummary{
		Date:             day.Format("2006-01-02"),
		SalesCount:       len(sales),
		SalesTotal:       salesTotal,
		WithdrawalsTotal: withdrawn,
		AvailableBalance: salesTotal.Sub(withdrawn),
	}, nil
}
