package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiosco_pos_backend/internal/models"

	"github.com/lib/pq"
)

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	Create(executor SQLExecutor, product *models.Product) (int64, error)
	GetByID(id int64) (*models.Product, error)
	GetBySKU(sku string) (*models.Product, error)
	GetAll() ([]models.Product, error)
	GetLowStock() ([]models.Product, error)
	SearchForSale(term string, limit int) ([]models.Product, error)
	CountBySKUPrefix(prefix string) (int, error)
	CountByCategoryLabel(categoryName string) (int, error)
	Update(executor SQLExecutor, product *models.Product) error
	Delete(executor SQLExecutor, id int64) (int64, error)
	DecrementStock(executor SQLExecutor, productID int64, quantity int) (bool, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, sku, name, description, quantity, price, min_stock, category_label, created_at, updated_at`

func scanProduct(row interface {
	Scan(dest ...interface{}) error
}, p *models.Product) error {
	return row.Scan(
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Quantity, &p.Price,
		&p.MinStock, &p.CategoryLabel, &p.CreatedAt, &p.UpdatedAt,
	)
}

func (r *productRepository) Create(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (sku, name, description, quantity, price, min_stock, category_label, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	currentTime := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = currentTime
	}
	product.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		product.SKU, product.Name, product.Description, product.Quantity, product.Price,
		product.MinStock, product.CategoryLabel, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: product SKU '%s' (constraint: %s)", ErrDuplicateKey, product.SKU, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

func (r *productRepository) GetByID(id int64) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	err := scanProduct(r.db.QueryRow(query, id), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	return product, nil
}

func (r *productRepository) GetBySKU(sku string) (*models.Product, error) {
	product := &models.Product{}
	query := `SELECT ` + productColumns + ` FROM products WHERE LOWER(sku) = LOWER($1)`
	err := scanProduct(r.db.QueryRow(query, sku), product)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by SKU '%s': %v", ErrDatabaseError, sku, err)
	}
	return product, nil
}

func (r *productRepository) GetAll() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name`
	return r.queryProducts(query)
}

func (r *productRepository) GetLowStock() ([]models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE quantity <= min_stock ORDER BY name`
	return r.queryProducts(query)
}

func (r *productRepository) queryProducts(query string, args ...interface{}) ([]models.Product, error) {
	products := []models.Product{}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, nil
}

// SearchForSale returns checkout candidates ranked so an exact SKU match comes
// first, then name substring matches, then category-only matches; ties break
// alphabetically by name. If the category_label column is missing on the
// current schema revision, the search degrades to name and SKU only.
func (r *productRepository) SearchForSale(term string, limit int) ([]models.Product, error) {
	pattern := "%" + term + "%"

	query := `SELECT id, sku, name, description, quantity, price, min_stock, category_label, created_at, updated_at
	          FROM products
	          WHERE name ILIKE $1 OR sku ILIKE $1 OR category_label ILIKE $1
	          ORDER BY
	              CASE
	                  WHEN LOWER(sku) = LOWER($2) THEN 0
	                  WHEN name ILIKE $1 THEN 1
	                  ELSE 2
	              END,
	              name
	          LIMIT $3`
	products, err := r.querySearch(query, pattern, term, limit, true)
	if err != nil {
		if errors.Is(err, ErrDatabaseError) {
			return nil, err
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "undefined_column" {
			fallback := `SELECT id, sku, name, description, quantity, price, min_stock, created_at, updated_at
			             FROM products
			             WHERE name ILIKE $1 OR sku ILIKE $1
			             ORDER BY
			                 CASE
			                     WHEN LOWER(sku) = LOWER($2) THEN 0
			                     WHEN name ILIKE $1 THEN 1
			                     ELSE 2
			                 END,
			                 name
			             LIMIT $3`
			return r.querySearch(fallback, pattern, term, limit, false)
		}
		return nil, fmt.Errorf("%w: searching products for '%s': %v", ErrDatabaseError, term, err)
	}
	return products, nil
}

func (r *productRepository) querySearch(query, pattern, term string, limit int, withCategory bool) ([]models.Product, error) {
	products := []models.Product{}
	rows, err := r.db.Query(query, pattern, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		var scanErr error
		if withCategory {
			scanErr = scanProduct(rows, &p)
		} else {
			scanErr = rows.Scan(
				&p.ID, &p.SKU, &p.Name, &p.Description, &p.Quantity, &p.Price,
				&p.MinStock, &p.CreatedAt, &p.UpdatedAt,
			)
		}
		if scanErr != nil {
			return nil, fmt.Errorf("%w: scanning search result: %v", ErrDatabaseError, scanErr)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating search results: %v", ErrDatabaseError, err)
	}
	return products, nil
}

// CountBySKUPrefix counts products whose SKU starts with the given prefix,
// case-insensitively. Used for SKU suggestions; the count is advisory only.
func (r *productRepository) CountBySKUPrefix(prefix string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE sku ILIKE $1`
	err := r.db.QueryRow(query, prefix+"%").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting products with SKU prefix '%s': %v", ErrDatabaseError, prefix, err)
	}
	return count, nil
}

func (r *productRepository) CountByCategoryLabel(categoryName string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE LOWER(category_label) = LOWER($1)`
	err := r.db.QueryRow(query, categoryName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting products in category '%s': %v", ErrDatabaseError, categoryName, err)
	}
	return count, nil
}

func (r *productRepository) Update(executor SQLExecutor, product *models.Product) error {
	query := `UPDATE products SET
	            name = $1, description = $2, quantity = $3, price = $4,
	            min_stock = $5, category_label = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		product.Name, product.Description, product.Quantity, product.Price,
		product.MinStock, product.CategoryLabel, time.Now(), product.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: updating product (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, product.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(executor SQLExecutor, id int64) (int64, error) {
	query := `DELETE FROM products WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return 0, ErrNotFound
	}
	return rowsAffected, nil
}

// DecrementStock applies the conditional decrement for a sale. The guard
// quantity >= N is evaluated by the store itself so a validation-to-commit
// race can never drive stock negative; the caller must treat a false return
// as a failed commit and roll back the surrounding transaction.
func (r *productRepository) DecrementStock(executor SQLExecutor, productID int64, quantity int) (bool, error) {
	query := `UPDATE products
	          SET quantity = quantity - $1, updated_at = $2
	          WHERE id = $3 AND quantity >= $1`
	result, err := executor.Exec(query, quantity, time.Now(), productID)
	if err != nil {
		return false, fmt.Errorf("%w: decrementing stock for product ID %d: %v", ErrDatabaseError, productID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for stock decrement of product ID %d: %v", ErrDatabaseError, productID, err)
	}
	return rowsAffected > 0, nil
}
