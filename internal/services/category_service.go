package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"kiosco_pos_backend/internal/models"
	"kiosco_pos_backend/internal/repositories"
)

var (
	ErrValidation            = errors.New("validation error") // Generic validation error
	ErrCategoryNotFound      = errors.New("category not found")
	ErrDuplicateCategoryName = errors.New("category name already exists")
	ErrInvalidPrefix         = errors.New("invalid category prefix")
	ErrDuplicatePrefix       = errors.New("category prefix already exists")
)

// maxPrefixLength bounds category prefixes so generated SKUs stay short.
const maxPrefixLength = 5

// --- Data Transfer Objects (DTOs) ---

// CreateCategoryRequest is used for creating a new category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Prefix      string  `json:"prefix" binding:"required"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest is used for updating an existing category.
type UpdateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Prefix      string  `json:"prefix" binding:"required"`
	Description *string `json:"description"`
}

// --- CategoryService Interface ---
type CategoryService interface {
	CreateCategory(req CreateCategoryRequest) (*models.Category, error)
	GetCategories(onlyActive bool) ([]models.Category, error)
	GetCategoryByID(categoryID int64) (*models.Category, error)
	UpdateCategory(categoryID int64, req UpdateCategoryRequest) (*models.Category, error)
	DeactivateCategory(categoryID int64) error
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	db           *sql.DB
}

// NewCategoryService creates a new instance of CategoryService.
func NewCategoryService(cr repositories.CategoryRepository, db *sql.DB) CategoryService {
	return &categoryService{categoryRepo: cr, db: db}
}

// validatePrefix checks prefix shape and uniqueness. excludeID skips the
// category being updated so it does not collide with itself. Uniqueness is
// checked across active and inactive categories alike.
func (s *categoryService) validatePrefix(prefix string, excludeID int64) error {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return fmt.Errorf("%w: prefix is required", ErrInvalidPrefix)
	}
	if len(prefix) > maxPrefixLength {
		return fmt.Errorf("%w: prefix cannot be longer than %d characters", ErrInvalidPrefix, maxPrefixLength)
	}
	for _, r := range prefix {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: prefix may only contain letters", ErrInvalidPrefix)
		}
	}

	existing, err := s.categoryRepo.GetByPrefix(prefix)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check prefix uniqueness: %w", err)
	}
	if existing.ID != excludeID {
		return fmt.Errorf("%w: a category with prefix '%s' already exists", ErrDuplicatePrefix, prefix)
	}
	return nil
}

// validateName enforces case-insensitive name uniqueness across all
// categories, including deactivated ones.
func (s *categoryService) validateName(name string, excludeID int64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}
	existing, err := s.categoryRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check name uniqueness: %w", err)
	}
	if existing.ID != excludeID {
		return fmt.Errorf("%w: a category named '%s' already exists", ErrDuplicateCategoryName, strings.ToUpper(name))
	}
	return nil
}

func (s *categoryService) CreateCategory(req CreateCategoryRequest) (*models.Category, error) {
	if err := s.validateName(req.Name, 0); err != nil {
		return nil, err
	}
	if err := s.validatePrefix(req.Prefix, 0); err != nil {
		return nil, err
	}

	category := models.Category{
		Name:        strings.ToUpper(strings.TrimSpace(req.Name)),
		Prefix:      strings.ToUpper(strings.TrimSpace(req.Prefix)),
		Description: req.Description,
		IsActive:    true,
	}

	_, err := s.categoryRepo.Create(s.db, &category)
	if err != nil {
		// The unique indexes are the correctness boundary if a concurrent
		// insert slipped past the pre-checks.
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateCategoryName, category.Name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *categoryService) GetCategories(onlyActive bool) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(onlyActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) GetCategoryByID(categoryID int64) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return category, nil
}

func (s *categoryService) UpdateCategory(categoryID int64, req UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch category for update: %w", err)
	}

	if err := s.validateName(req.Name, categoryID); err != nil {
		return nil, err
	}
	if err := s.validatePrefix(req.Prefix, categoryID); err != nil {
		return nil, err
	}

	category.Name = strings.ToUpper(strings.TrimSpace(req.Name))
	category.Prefix = strings.ToUpper(strings.TrimSpace(req.Prefix))
	category.Description = req.Description

	if err := s.categoryRepo.Update(s.db, category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateCategoryName, category.Name)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeactivateCategory performs the logical delete. Products carrying the
// category's label are not touched: they remain retrievable and searchable.
func (s *categoryService) DeactivateCategory(categoryID int64) error {
	err := s.categoryRepo.Deactivate(s.db, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to deactivate category: %w", err)
	}
	return nil
}
