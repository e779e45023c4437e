package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"kiosco_pos_backend/internal/services"
	"kiosco_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ProductHandler holds the product service.
type ProductHandler struct {
	productService services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(ps services.ProductService) *ProductHandler {
	return &ProductHandler{productService: ps}
}

func isProductValidationError(err error) bool {
	return errors.Is(err, services.ErrValidation) ||
		errors.Is(err, services.ErrMissingName) ||
		errors.Is(err, services.ErrNonPositivePrice) ||
		errors.Is(err, services.ErrNegativeQuantity)
}

// CreateProduct handles the creation of a new product.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateProduct: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.CreateProduct(req)
	if err != nil {
		utils.LogError(err, "CreateProduct: Error from productService.CreateProduct")
		if errors.Is(err, services.ErrDuplicateSKU) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "SKU already exists.", err.Error()))
		} else if isProductValidationError(err) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GetProducts handles fetching all products.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := h.productService.GetProducts()
	if err != nil {
		utils.LogError(err, "GetProducts: Error from productService.GetProducts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch products.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetLowStockProducts lists products at or below their stock floor.
func (h *ProductHandler) GetLowStockProducts(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts()
	if err != nil {
		utils.LogError(err, "GetLowStockProducts: Error from productService.GetLowStockProducts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch low-stock products.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// SearchProducts handles the point-of-sale product search; ?term= is the
// query typed by the cashier.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	term := c.Query("term")

	products, err := h.productService.Search(term)
	if err != nil {
		utils.LogError(err, "SearchProducts: Error from productService.Search")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to search products.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProductByID handles fetching a single product by ID.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	idStr := c.Param("id")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	product, err := h.productService.GetProductByID(productID)
	if err != nil {
		utils.LogError(err, "GetProductByID: Error from productService.GetProductByID for ID "+idStr)
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetProductBySKU handles fetching a single product by SKU.
func (h *ProductHandler) GetProductBySKU(c *gin.Context) {
	sku := c.Param("sku")

	product, err := h.productService.GetProductBySKU(sku)
	if err != nil {
		utils.LogError(err, "GetProductBySKU: Error from productService.GetProductBySKU for SKU "+sku)
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct handles updating a product. The SKU is immutable.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	idStr := c.Param("id")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateProduct: Failed to bind JSON for ID "+idStr)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.productService.UpdateProduct(productID, req)
	if err != nil {
		utils.LogError(err, "UpdateProduct: Error from productService.UpdateProduct for ID "+idStr)
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found to update.", err.Error()))
		} else if isProductValidationError(err) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct handles deleting a product.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	idStr := c.Param("id")
	productID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	if err := h.productService.DeleteProduct(productID); err != nil {
		utils.LogError(err, "DeleteProduct: Error from productService.DeleteProduct for ID "+idStr)
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// SuggestSKU returns the next available SKU for a category, passed as
// ?category_id=.
func (h *ProductHandler) SuggestSKU(c *gin.Context) {
	idStr := c.Query("category_id")
	categoryID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid or missing category_id.", err.Error()))
		return
	}

	sku, err := h.productService.SuggestSKU(categoryID)
	if err != nil {
		utils.LogError(err, "SuggestSKU: Error from productService.SuggestSKU for category ID "+idStr)
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to suggest SKU.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"sku": sku})
}
