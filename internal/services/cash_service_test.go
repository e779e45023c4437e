package services

import (
	"testing"
	"time"

	"kiosco_pos_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSale(repo *fakeSaleRepo, total string, at time.Time) {
	repo.CreateSale(nil, &models.Sale{Total: price(total), PaymentMethod: "cash", Operator: "ana", CreatedAt: at})
}

func TestAvailableBalance_SalesMinusWithdrawals(t *testing.T) {
	saleRepo := newFakeSaleRepo()
	cashRepo := newFakeCashRepo()
	now := time.Now()

	seedSale(saleRepo, "60", now)
	seedSale(saleRepo, "40", now)
	cashRepo.Create(nil, &models.CashMovement{Kind: models.MovementKindWithdrawal, Amount: price("30"), CreatedAt: now})

	svc := NewCashService(cashRepo, saleRepo, nil)
	balance, err := svc.AvailableBalance(now)
	require.NoError(t, err)
	assert.True(t, balance.Equal(price("70")), "got %s", balance)
}

func TestAvailableBalance_IgnoresOtherDays(t *testing.T) {
	saleRepo := newFakeSaleRepo()
	cashRepo := newFakeCashRepo()
	now := time.Now()

	seedSale(saleRepo, "100", now.AddDate(0, 0, -1))
	seedSale(saleRepo, "25", now)

	svc := NewCashService(cashRepo, saleRepo, nil)
	balance, err := svc.AvailableBalance(now)
	require.NoError(t, err)
	assert.True(t, balance.Equal(price("25")), "got %s", balance)
}

func TestRecordWithdrawal_GuardAgainstOverdraw(t *testing.T) {
	saleRepo := newFakeSaleRepo()
	cashRepo := newFakeCashRepo()
	now := time.Now()

	seedSale(saleRepo, "100", now)
	cashRepo.Create(nil, &models.CashMovement{Kind: models.MovementKindWithdrawal, Amount: price("30"), CreatedAt: now})

	svc := NewCashService(cashRepo, saleRepo, nil)

	// 100 sold, 30 already withdrawn: 80 must fail, 70 must succeed.
	_, err := svc.RecordWithdrawal(RecordWithdrawalRequest{Amount: price("80"), Memo: "proveedor"}, "ana")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	movement, err := svc.RecordWithdrawal(RecordWithdrawalRequest{Amount: price("70"), Memo: "proveedor"}, "ana")
	require.NoError(t, err)
	assert.Equal(t, models.MovementKindWithdrawal, movement.Kind)
	assert.Equal(t, "ana", movement.Operator)

	balance, err := svc.AvailableBalance(now)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "got %s", balance)
}

func TestRecordWithdrawal_RejectsNonPositiveAmount(t *testing.T) {
	svc := NewCashService(newFakeCashRepo(), newFakeSaleRepo(), nil)

	for _, amount := range []decimal.Decimal{decimal.Zero, price("-5")} {
		_, err := svc.RecordWithdrawal(RecordWithdrawalRequest{Amount: amount, Memo: "x"}, "ana")
		assert.ErrorIs(t, err, ErrNonPositiveAmount)
	}
}

func TestRecordWithdrawal_RequiresMemo(t *testing.T) {
	saleRepo := newFakeSaleRepo()
	seedSale(saleRepo, "50", time.Now())
	svc := NewCashService(newFakeCashRepo(), saleRepo, nil)

	_, err := svc.RecordWithdrawal(RecordWithdrawalRequest{Amount: price("10"), Memo: "   "}, "ana")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDailySummary(t *testing.T) {
	saleRepo := newFakeSaleRepo()
	cashRepo := newFakeCashRepo()
	now := time.Now()

	seedSale(saleRepo, "10", now)
	seedSale(saleRepo, "15.50", now)
	cashRepo.Create(nil, &models.CashMovement{Kind: models.MovementKindWithdrawal, Amount: price("5"), CreatedAt: now})

	svc := NewCashService(cashRepo, saleRepo, nil)
	summary, err := svc.DailySummary(now)
	require.NoError(t, err)

	assert.Equal(t, now.Format("2006-01-02"), summary.Date)
	assert.Equal(t, 2, summary.SalesCount)
	assert.True(t, summary.SalesTotal.Equal(price("25.50")), "got %s", summary.SalesTotal)
	assert.True(t, summary.WithdrawalsTotal.Equal(price("5")), "got %s", summary.WithdrawalsTotal)
	assert.True(t, summary.AvailableBalance.Equal(price("20.50")), "got %s", summary.AvailableBalance)
}
