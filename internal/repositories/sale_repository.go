package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiosco_pos_backend/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// SaleRepository defines the interface for sale-related database operations.
// Writes go through an SQLExecutor so the sale service can run the whole
// commit (sale, line items, stock decrements) in one transaction.
type SaleRepository interface {
	CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error)
	CreateLineItem(executor SQLExecutor, item *models.SaleLineItem) (int64, error)
	GetSaleByID(saleID int64) (*models.Sale, error)
	GetLineItemsBySaleID(saleID int64) ([]models.SaleLineItem, error)
	GetSalesForDay(day time.Time) ([]models.Sale, error)
	TotalSalesForDay(day time.Time) (decimal.Decimal, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

// dayRange returns the [from, to) bounds of the calendar day containing t.
// Range comparisons keep the created_at index usable.
func dayRange(t time.Time) (time.Time, time.Time) {
	from := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return from, from.AddDate(0, 0, 1)
}

func (r *saleRepository) CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error) {
	query := `INSERT INTO sales (reference, total, payment_method, operator, created_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		sale.Reference, sale.Total, sale.PaymentMethod, sale.Operator, sale.CreatedAt,
	).Scan(&sale.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: sale reference '%s' (constraint: %s)", ErrDuplicateKey, sale.Reference, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating sale: %v", ErrDatabaseError, err)
	}
	return sale.ID, nil
}

func (r *saleRepository) CreateLineItem(executor SQLExecutor, item *models.SaleLineItem) (int64, error) {
	query := `INSERT INTO sale_line_items (sale_id, product_id, sku, product_name, quantity, unit_price, subtotal)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.SaleID, item.ProductID, item.SKU, item.ProductName,
		item.Quantity, item.UnitPrice, item.Subtotal,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating sale line item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating sale line item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *saleRepository) GetSaleByID(saleID int64) (*models.Sale, error) {
	sale := &models.Sale{}
	query := `SELECT id, reference, total, payment_method, operator, created_at
	          FROM sales WHERE id = $1`
	err := r.db.QueryRow(query, saleID).Scan(
		&sale.ID, &sale.Reference, &sale.Total, &sale.PaymentMethod, &sale.Operator, &sale.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale by ID %d: %v", ErrDatabaseError, saleID, err)
	}
	return sale, nil
}

func (r *saleRepository) GetLineItemsBySaleID(saleID int64) ([]models.SaleLineItem, error) {
	items := []models.SaleLineItem{}
	query := `SELECT id, sale_id, product_id, sku, product_name, quantity, unit_price, subtotal
	          FROM sale_line_items
	          WHERE sale_id = $1
	          ORDER BY id`
	rows, err := r.db.Query(query, saleID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying line items for sale ID %d: %v", ErrDatabaseError, saleID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.SaleLineItem
		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.ProductID, &item.SKU, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning sale line item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sale line item rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *saleRepository) GetSalesForDay(day time.Time) ([]models.Sale, error) {
	sales := []models.Sale{}
	from, to := dayRange(day)
	query := `SELECT id, reference, total, payment_method, operator, created_at
	          FROM sales
	          WHERE created_at >= $1 AND created_at < $2
	          ORDER BY created_at DESC`
	rows, err := r.db.Query(query, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sales for day %s: %v", ErrDatabaseError, day.Format("2006-01-02"), err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Sale
		if err := rows.Scan(&s.ID, &s.Reference, &s.Total, &s.PaymentMethod, &s.Operator, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}
		sales = append(sales, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sale rows: %v", ErrDatabaseError, err)
	}
	return sales, nil
}

func (r *saleRepository) TotalSalesForDay(day time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	from, to := dayRange(day)
	query := `SELECT COALESCE(SUM(total), 0)
	          FROM sales
	          WHERE created_at >= $1 AND created_at < $2`
	err := r.db.QueryRow(query, from, to).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: totaling sales for day %s: %v", ErrDatabaseError, day.Format("2006-01-02"), err)
	}
	return total, nil
}
