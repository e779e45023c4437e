package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"kiosco_pos_backend/internal/models"

	"github.com/shopspring/decimal"
)

// CashMovementRepository defines the interface for drawer-movement database operations.
type CashMovementRepository interface {
	Create(executor SQLExecutor, movement *models.CashMovement) (int64, error)
	GetForDay(day time.Time, kind string) ([]models.CashMovement, error)
	TotalForDay(day time.Time, kind string) (decimal.Decimal, error)
}

type cashMovementRepository struct {
	db *sql.DB
}

// NewCashMovementRepository creates a new instance of CashMovementRepository.
func NewCashMovementRepository(db *sql.DB) CashMovementRepository {
	return &cashMovementRepository{db: db}
}

func (r *cashMovementRepository) Create(executor SQLExecutor, movement *models.CashMovement) (int64, error) {
	query := `INSERT INTO cash_movements (kind, amount, memo, operator, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		movement.Kind, movement.Amount, movement.Memo, movement.Operator, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating cash movement: %v", ErrDatabaseError, err)
	}
	return movement.ID, nil
}

func (r *cashMovementRepository) GetForDay(day time.Time, kind string) ([]models.CashMovement, error) {
	movements := []models.CashMovement{}
	from, to := dayRange(day)
	query := `SELECT id, kind, amount, memo, operator, created_at
	          FROM cash_movements
	          WHERE created_at >= $1 AND created_at < $2 AND kind = $3
	          ORDER BY created_at DESC`
	rows, err := r.db.Query(query, from, to, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: querying cash movements for day %s: %v", ErrDatabaseError, day.Format("2006-01-02"), err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.CashMovement
		if err := rows.Scan(&m.ID, &m.Kind, &m.Amount, &m.Memo, &m.Operator, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning cash movement: %v", ErrDatabaseError, err)
		}
		movements = append(movements, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating cash movement rows: %v", ErrDatabaseError, err)
	}
	return movements, nil
}

func (r *cashMovementRepository) TotalForDay(day time.Time, kind string) (decimal.Decimal, error) {
	var total decimal.Decimal
	from, to := dayRange(day)
	query := `SELECT COALESCE(SUM(amount), 0)
	          FROM cash_movements
	          WHERE created_at >= $1 AND created_at < $2 AND kind = $3`
	err := r.db.QueryRow(query, from, to, kind).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: totaling cash movements for day %s: %v", ErrDatabaseError, day.Format("2006-01-02"), err)
	}
	return total, nil
}
