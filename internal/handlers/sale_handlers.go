package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"kiosco_pos_backend/internal/middleware"
	"kiosco_pos_backend/internal/services"
	"kiosco_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SaleHandler holds the sale service.
type SaleHandler struct {
	saleService services.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(ss services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: ss}
}

// operatorFromContext returns the authenticated operator's username. The auth
// middleware guarantees it is set on protected routes.
func operatorFromContext(c *gin.Context) string {
	if username, exists := c.Get(middleware.ContextUsername); exists {
		if s, ok := username.(string); ok {
			return s
		}
	}
	return ""
}

// dayFromQuery parses the optional ?date=YYYY-MM-DD parameter, defaulting to
// today.
func dayFromQuery(c *gin.Context) (time.Time, error) {
	dateStr := c.Query("date")
	if dateStr == "" {
		return time.Now(), nil
	}
	return time.ParseInLocation("2006-01-02", dateStr, time.Local)
}

// CreateSale handles committing a sale from the cart payload.
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req services.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateSale: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	operator := operatorFromContext(c)
	if operator == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Operator not authenticated.", "Missing operator in context"))
		return
	}

	result, err := h.saleService.CreateSale(req, operator)
	if err != nil {
		utils.LogError(err, "CreateSale: Error from saleService.CreateSale")
		if errors.Is(err, services.ErrEmptyCart) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Cannot commit an empty cart.", err.Error()))
		} else if errors.Is(err, services.ErrInsufficientStock) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, "Insufficient stock.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to commit sale.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetSaleByID handles fetching a single sale with its line items.
func (h *SaleHandler) GetSaleByID(c *gin.Context) {
	idStr := c.Param("id")
	saleID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid sale ID format.", err.Error()))
		return
	}

	sale, err := h.saleService.GetSaleByID(saleID)
	if err != nil {
		utils.LogError(err, "GetSaleByID: Error from saleService.GetSaleByID for ID "+idStr)
		if errors.Is(err, services.ErrSaleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Sale not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sale.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, sale)
}

// GetSales handles listing sales for one day (?date=YYYY-MM-DD, default today).
func (h *SaleHandler) GetSales(c *gin.Context) {
	day, err := dayFromQuery(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date format, expected YYYY-MM-DD.", err.Error()))
		return
	}

	sales, err := h.saleService.GetSalesForDay(day)
	if err != nil {
		utils.LogError(err, "GetSales: Error from saleService.GetSalesForDay")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch sales.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, sales)
}
