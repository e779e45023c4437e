package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiosco_pos_backend/internal/models"

	"github.com/lib/pq"
)

// CategoryRepository defines the interface for category-related database operations.
type CategoryRepository interface {
	Create(executor SQLExecutor, category *models.Category) (int64, error)
	GetByID(id int64) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	GetByPrefix(prefix string) (*models.Category, error)
	GetAll(onlyActive bool) ([]models.Category, error)
	Update(executor SQLExecutor, category *models.Category) error
	Deactivate(executor SQLExecutor, id int64) error
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(executor SQLExecutor, category *models.Category) (int64, error) {
	query := `INSERT INTO categories (name, prefix, description, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		category.Name, category.Prefix, category.Description, category.IsActive, category.CreatedAt,
	).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: category '%s' / prefix '%s' (constraint: %s)", ErrDuplicateKey, category.Name, category.Prefix, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating category: %v", ErrDatabaseError, err)
	}
	return category.ID, nil
}

func (r *categoryRepository) GetByID(id int64) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name, prefix, description, is_active, created_at FROM categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&category.ID, &category.Name, &category.Prefix, &category.Description, &category.IsActive, &category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category by ID %d: %v", ErrDatabaseError, id, err)
	}
	return category, nil
}

// GetByName matches case-insensitively and includes inactive categories, so a
// deactivated name cannot be silently reused.
func (r *categoryRepository) GetByName(name string) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name, prefix, description, is_active, created_at
	          FROM categories WHERE LOWER(name) = LOWER($1)`
	err := r.db.QueryRow(query, name).Scan(
		&category.ID, &category.Name, &category.Prefix, &category.Description, &category.IsActive, &category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category by name '%s': %v", ErrDatabaseError, name, err)
	}
	return category, nil
}

// GetByPrefix matches case-insensitively across active and inactive categories.
func (r *categoryRepository) GetByPrefix(prefix string) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name, prefix, description, is_active, created_at
	          FROM categories WHERE LOWER(prefix) = LOWER($1)`
	err := r.db.QueryRow(query, prefix).Scan(
		&category.ID, &category.Name, &category.Prefix, &category.Description, &category.IsActive, &category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category by prefix '%s': %v", ErrDatabaseError, prefix, err)
	}
	return category, nil
}

func (r *categoryRepository) GetAll(onlyActive bool) ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name, prefix, description, is_active, created_at FROM categories`
	if onlyActive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Prefix, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category rows: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *categoryRepository) Update(executor SQLExecutor, category *models.Category) error {
	query := `UPDATE categories SET name = $1, prefix = $2, description = $3 WHERE id = $4`
	result, err := executor.Exec(query, category.Name, category.Prefix, category.Description, category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: category '%s' / prefix '%s' (constraint: %s)", ErrDuplicateKey, category.Name, category.Prefix, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating category ID %d: %v", ErrDatabaseError, category.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate performs the logical delete. Product rows referencing the
// category by label are intentionally left alone.
func (r *categoryRepository) Deactivate(executor SQLExecutor, id int64) error {
	query := `UPDATE categories SET is_active = FALSE WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deactivating category ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
