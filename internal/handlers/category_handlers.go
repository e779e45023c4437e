package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"kiosco_pos_backend/internal/services"
	"kiosco_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CategoryHandler holds the category service.
type CategoryHandler struct {
	categoryService services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(cs services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: cs}
}

// CreateCategory handles the creation of a new category.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateCategory: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(req)
	if err != nil {
		utils.LogError(err, "CreateCategory: Error from categoryService.CreateCategory")
		if errors.Is(err, services.ErrDuplicateCategoryName) || errors.Is(err, services.ErrDuplicatePrefix) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name or prefix already exists.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidPrefix) || errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, category)
}

// GetCategories handles fetching all categories. By default only active ones
// are returned; pass ?include_inactive=true for the full list.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	includeInactive := c.DefaultQuery("include_inactive", "false") == "true"

	categories, err := h.categoryService.GetCategories(!includeInactive)
	if err != nil {
		utils.LogError(err, "GetCategories: Error from categoryService.GetCategories")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch categories.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategoryByID handles fetching a single category by ID.
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	idStr := c.Param("id")
	categoryID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", err.Error()))
		return
	}

	category, err := h.categoryService.GetCategoryByID(categoryID)
	if err != nil {
		utils.LogError(err, "GetCategoryByID: Error from categoryService.GetCategoryByID for ID "+idStr)
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

// UpdateCategory handles updating a category.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	idStr := c.Param("id")
	categoryID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", err.Error()))
		return
	}

	var req services.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateCategory: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(categoryID, req)
	if err != nil {
		utils.LogError(err, "UpdateCategory: Error from categoryService.UpdateCategory for ID "+idStr)
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrDuplicateCategoryName) || errors.Is(err, services.ErrDuplicatePrefix) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name or prefix already exists.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidPrefix) || errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeactivateCategory handles soft-deleting a category. Products keep their
// category label; the category just stops appearing in active listings.
func (h *CategoryHandler) DeactivateCategory(c *gin.Context) {
	idStr := c.Param("id")
	categoryID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", err.Error()))
		return
	}

	if err := h.categoryService.DeactivateCategory(categoryID); err != nil {
		utils.LogError(err, "DeactivateCategory: Error from categoryService.DeactivateCategory for ID "+idStr)
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found to deactivate.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to deactivate category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deactivated successfully"})
}
