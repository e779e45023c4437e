package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"kiosco_pos_backend/internal/models"
	"kiosco_pos_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateSKU     = errors.New("product SKU already exists")
	ErrMissingName      = errors.New("product name is required")
	ErrNonPositivePrice = errors.New("price must be greater than zero")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
)

// searchLimit bounds checkout search results; the cashier UI shows at most
// one short page of candidates.
const searchLimit = 10

// minSearchTermLength gates search so sub-2-character keystrokes are no-ops,
// not errors.
const minSearchTermLength = 2

// skuNumberWidth is the zero-padding width of the numeric SKU suffix.
const skuNumberWidth = 3

// --- Data Transfer Objects (DTOs) ---

// CreateProductRequest is used for creating a new product.
type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Description   *string         `json:"description"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	MinStock      int             `json:"min_stock"`
	CategoryLabel string          `json:"category_label"`
}

// UpdateProductRequest is used for updating an existing product. The SKU is
// immutable once assigned.
type UpdateProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   *string         `json:"description"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	MinStock      int             `json:"min_stock"`
	CategoryLabel string          `json:"category_label"`
}

// --- ProductService Interface ---
type ProductService interface {
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	GetProducts() ([]models.Product, error)
	GetLowStockProducts() ([]models.Product, error)
	GetProductByID(productID int64) (*models.Product, error)
	GetProductBySKU(sku string) (*models.Product, error)
	UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error)
	DeleteProduct(productID int64) error
	Search(term string) ([]models.Product, error)
	SuggestSKU(categoryID int64) (string, error)
	CountProductsInCategory(categoryName string) (int, error)
}

type productService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	db           *sql.DB
}

// NewProductService creates a new instance of ProductService.
func NewProductService(pr repositories.ProductRepository, cr repositories.CategoryRepository, db *sql.DB) ProductService {
	return &productService{productRepo: pr, categoryRepo: cr, db: db}
}

func validateProductFields(name string, price decimal.Decimal, quantity int) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingName
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return ErrNonPositivePrice
	}
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

func (s *productService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.SKU) == "" {
		return nil, fmt.Errorf("%w: SKU is required", ErrValidation)
	}
	if err := validateProductFields(req.Name, req.Price, req.Quantity); err != nil {
		return nil, err
	}

	sku := strings.ToUpper(strings.TrimSpace(req.SKU))

	// Pre-check for a friendlier message; the unique index on products.sku is
	// the actual correctness boundary for the suggest-then-insert race.
	if _, err := s.productRepo.GetBySKU(sku); err == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateSKU, sku)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check SKU uniqueness: %w", err)
	}

	product := models.Product{
		SKU:           sku,
		Name:          req.Name,
		Description:   req.Description,
		Quantity:      req.Quantity,
		Price:         req.Price,
		MinStock:      req.MinStock,
		CategoryLabel: req.CategoryLabel,
	}

	_, err := s.productRepo.Create(s.db, &product)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateSKU, sku)
		}
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

func (s *productService) GetProducts() ([]models.Product, error) {
	products, err := s.productRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

func (s *productService) GetLowStockProducts() ([]models.Product, error) {
	products, err := s.productRepo.GetLowStock()
	if err != nil {
		return nil, fmt.Errorf("failed to get low-stock products: %w", err)
	}
	return products, nil
}

func (s *productService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return product, nil
}

func (s *productService) GetProductBySKU(sku string) (*models.Product, error) {
	product, err := s.productRepo.GetBySKU(sku)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by SKU: %w", err)
	}
	return product, nil
}

func (s *productService) UpdateProduct(productID int64, req UpdateProductRequest) (*models.Product, error) {
	if err := validateProductFields(req.Name, req.Price, req.Quantity); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to fetch product for update: %w", err)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Quantity = req.Quantity
	product.Price = req.Price
	product.MinStock = req.MinStock
	product.CategoryLabel = req.CategoryLabel

	if err := s.productRepo.Update(s.db, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

func (s *productService) DeleteProduct(productID int64) error {
	_, err := s.productRepo.Delete(s.db, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// Search returns ranked checkout candidates. Terms below the minimum length
// yield an empty result rather than an error; the caller debounces keystrokes.
func (s *productService) Search(term string) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if len(term) < minSearchTermLength {
		return []models.Product{}, nil
	}
	products, err := s.productRepo.SearchForSale(term, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// SuggestSKU derives the next sequential SKU for a category by counting
// existing products sharing its prefix. The suggestion is advisory: nothing
// is reserved, and a race between suggestion and insert surfaces as a
// duplicate-SKU conflict at insert time.
func (s *productService) SuggestSKU(categoryID int64) (string, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrCategoryNotFound
		}
		return "", fmt.Errorf("failed to fetch category for SKU suggestion: %w", err)
	}

	count, err := s.productRepo.CountBySKUPrefix(category.Prefix)
	if err != nil {
		return "", fmt.Errorf("failed to count products for SKU suggestion: %w", err)
	}
	return fmt.Sprintf("%s%0*d", category.Prefix, skuNumberWidth, count+1), nil
}

// CountProductsInCategory tolerates zero matches: an unknown or empty
// category simply counts zero products.
func (s *productService) CountProductsInCategory(categoryName string) (int, error) {
	count, err := s.productRepo.CountByCategoryLabel(categoryName)
	if err != nil {
		return 0, fmt.Errorf("failed to count products in category: %w", err)
	}
	return count, nil
}
