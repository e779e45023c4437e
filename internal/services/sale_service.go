package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kiosco_pos_backend/internal/models"
	"kiosco_pos_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSaleNotFound      = errors.New("sale not found")
)

// --- Data Transfer Objects (DTOs) ---

// SaleLineItemRequest is one product/quantity entry of a proposed sale. The
// name, SKU and unit price are the snapshot captured when the cashier added
// the item to the cart; they are persisted verbatim on the line item.
type SaleLineItemRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest is used for committing a sale.
type CreateSaleRequest struct {
	Items         []SaleLineItemRequest `json:"items" binding:"required,dive"`
	PaymentMethod string                `json:"payment_method" binding:"required"`
}

// CreateSaleResult is returned on a successful commit.
type CreateSaleResult struct {
	Sale    *models.Sale `json:"sale"`
	Message string       `json:"message"`
}

// --- SaleService Interface ---
type SaleService interface {
	CreateSale(req CreateSaleRequest, operator string) (*CreateSaleResult, error)
	GetSaleByID(saleID int64) (*models.Sale, error)
	GetSalesForDay(day time.Time) ([]models.Sale, error)
}

type saleService struct {
	saleRepo    repositories.SaleRepository
	productRepo repositories.ProductRepository
	db          *sql.DB // For managing transactions
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(sr repositories.SaleRepository, pr repositories.ProductRepository, db *sql.DB) SaleService {
	return &saleService{saleRepo: sr, productRepo: pr, db: db}
}

// CreateSale validates the proposed line items against live stock and commits
// the sale in a single all-or-nothing transaction. Validation re-reads every
// product by id rather than trusting the cart snapshot: the interval between
// "added to cart" and "pay" can be arbitrarily long. The same stock guard is
// re-applied by the conditional decrement inside the transaction, closing the
// race between validation and commit.
func (s *saleService) CreateSale(req CreateSaleRequest, operator string) (*CreateSaleResult, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	lineItems := make([]models.SaleLineItem, 0, len(req.Items))

	for _, itemReq := range req.Items {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product ID %d must be positive", ErrValidation, itemReq.ProductID)
		}

		product, err := s.productRepo.GetByID(itemReq.ProductID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				name := itemReq.Name
				if name == "" {
					name = fmt.Sprintf("product ID %d", itemReq.ProductID)
				}
				return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, name)
			}
			return nil, fmt.Errorf("failed to fetch product %d for validation: %w", itemReq.ProductID, err)
		}
		if product.Quantity < itemReq.Quantity {
			return nil, fmt.Errorf("%w for %s. Requested: %d, Available: %d",
				ErrInsufficientStock, product.Name, itemReq.Quantity, product.Quantity)
		}

		// Snapshot fields fall back to the live row when the cart omitted them.
		sku := itemReq.SKU
		if sku == "" {
			sku = product.SKU
		}
		name := itemReq.Name
		if name == "" {
			name = product.Name
		}
		unitPrice := itemReq.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}

		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(itemReq.Quantity)))
		total = total.Add(subtotal)

		lineItems = append(lineItems, models.SaleLineItem{
			ProductID:   itemReq.ProductID,
			SKU:         sku,
			ProductName: name,
			Quantity:    itemReq.Quantity,
			UnitPrice:   unitPrice,
			Subtotal:    subtotal,
		})
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	sale := models.Sale{
		Reference:     uuid.NewString(),
		Total:         total,
		PaymentMethod: req.PaymentMethod,
		Operator:      operator,
		CreatedAt:     time.Now(),
	}

	saleID, err := s.saleRepo.CreateSale(tx, &sale)
	if err != nil {
		return nil, fmt.Errorf("failed to create sale record: %w", err)
	}
	sale.ID = saleID

	for i := range lineItems {
		lineItems[i].SaleID = saleID
		if _, err := s.saleRepo.CreateLineItem(tx, &lineItems[i]); err != nil {
			return nil, fmt.Errorf("failed to create sale line item (product_id: %d): %w", lineItems[i].ProductID, err)
		}

		// The store evaluates the quantity >= N guard itself; an unaffected
		// row means stock moved since validation and the whole sale aborts.
		decremented, err := s.productRepo.DecrementStock(tx, lineItems[i].ProductID, lineItems[i].Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to decrement stock for %s: %w", lineItems[i].ProductName, err)
		}
		if !decremented {
			return nil, fmt.Errorf("%w for %s", ErrInsufficientStock, lineItems[i].ProductName)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale transaction: %w", err)
	}

	sale.LineItems = lineItems
	return &CreateSaleResult{
		Sale:    &sale,
		Message: fmt.Sprintf("Sale #%d completed", saleID),
	}, nil
}

func (s *saleService) GetSaleByID(saleID int64) (*models.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale by ID: %w", err)
	}

	items, err := s.saleRepo.GetLineItemsBySaleID(saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get line items for sale %d: %w", saleID, err)
	}
	sale.LineItems = items
	return sale, nil
}

func (s *saleService) GetSalesForDay(day time.Time) ([]models.Sale, error) {
	sales, err := s.saleRepo.GetSalesForDay(day)
	if err != nil {
		return nil, fmt.Errorf("failed to get sales for day: %w", err)
	}
	return sales, nil
}
