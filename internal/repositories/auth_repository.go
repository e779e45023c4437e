package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiosco_pos_backend/internal/models"

	"github.com/lib/pq"
)

// AuthRepository defines the interface for operator-account database operations.
type AuthRepository interface {
	CreateOperator(executor SQLExecutor, operator *models.Operator, hashedPassword string) (int64, error)
	FindOperatorByUsername(username string) (*models.Operator, string, error) // Returns Operator, HashedPassword, Error
	FindOperatorByID(operatorID int64) (*models.Operator, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateOperator(executor SQLExecutor, operator *models.Operator, hashedPassword string) (int64, error) {
	query := `INSERT INTO operators (username, password_hash, full_name, role, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	currentTime := time.Now()

	var operatorID int64
	err := executor.QueryRow(query,
		operator.Username,
		hashedPassword,
		operator.FullName,
		operator.Role,
		true,
		currentTime,
		currentTime,
	).Scan(&operatorID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating operator: %v", ErrDatabaseError, err)
	}
	return operatorID, nil
}

// FindOperatorByUsername retrieves an operator and their password hash for
// credential checks.
func (r *authRepository) FindOperatorByUsername(username string) (*models.Operator, string, error) {
	operator := &models.Operator{}
	var hashedPassword string
	query := `SELECT id, username, password_hash, full_name, role, is_active, created_at, updated_at
	          FROM operators
	          WHERE username = $1`

	err := r.db.QueryRow(query, username).Scan(
		&operator.ID, &operator.Username, &hashedPassword, &operator.FullName,
		&operator.Role, &operator.IsActive, &operator.CreatedAt, &operator.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("%w: finding operator by username %s: %v", ErrDatabaseError, username, err)
	}
	return operator, hashedPassword, nil
}

func (r *authRepository) FindOperatorByID(operatorID int64) (*models.Operator, error) {
	operator := &models.Operator{}
	query := `SELECT id, username, full_name, role, is_active, created_at, updated_at
	          FROM operators
	          WHERE id = $1`

	err := r.db.QueryRow(query, operatorID).Scan(
		&operator.ID, &operator.Username, &operator.FullName,
		&operator.Role, &operator.IsActive, &operator.CreatedAt, &operator.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding operator by ID %d: %v", ErrDatabaseError, operatorID, err)
	}
	return operator, nil
}
