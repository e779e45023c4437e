package handlers

import (
	"errors"
	"net/http"

	"kiosco_pos_backend/internal/services"
	"kiosco_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CashHandler holds the cash service.
type CashHandler struct {
	cashService services.CashService
}

// NewCashHandler creates a new CashHandler.
func NewCashHandler(cs services.CashService) *CashHandler {
	return &CashHandler{cashService: cs}
}

// GetBalance returns the available register balance for a day.
func (h *CashHandler) GetBalance(c *gin.Context) {
	day, err := dayFromQuery(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date format, expected YYYY-MM-DD.", err.Error()))
		return
	}

	balance, err := h.cashService.AvailableBalance(day)
	if err != nil {
		utils.LogError(err, "GetBalance: Error from cashService.AvailableBalance")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute balance.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"available_balance": balance})
}

// RecordWithdrawal handles recording a cash withdrawal for the current day.
func (h *CashHandler) RecordWithdrawal(c *gin.Context) {
	var req services.RecordWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RecordWithdrawal: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	operator := operatorFromContext(c)
	if operator == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Operator not authenticated.", "Missing operator in context"))
		return
	}

	movement, err := h.cashService.RecordWithdrawal(req, operator)
	if err != nil {
		utils.LogError(err, "RecordWithdrawal: Error from cashService.RecordWithdrawal")
		if errors.Is(err, services.ErrNonPositiveAmount) || errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else if errors.Is(err, services.ErrInsufficientFunds) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnprocessableEntity, utils.ErrCodeUnprocessable, "Insufficient funds in register.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to record withdrawal.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// GetWithdrawals lists a day's withdrawals (?date=YYYY-MM-DD, default today).
func (h *CashHandler) GetWithdrawals(c *gin.Context) {
	day, err := dayFromQuery(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date format, expected YYYY-MM-DD.", err.Error()))
		return
	}

	movements, err := h.cashService.WithdrawalsForDay(day)
	if err != nil {
		utils.LogError(err, "GetWithdrawals: Error from cashService.WithdrawalsForDay")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch withdrawals.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, movements)
}

// GetDailySummary returns the drawer-close report for a day.
func (h *CashHandler) GetDailySummary(c *gin.Context) {
	day, err := dayFromQuery(c)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date format, expected YYYY-MM-DD.", err.Error()))
		return
	}

	summary, err := h.cashService.DailySummary(day)
	if err != nil {
		utils.LogError(err, "GetDailySummary: Error from cashService.DailySummary")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build daily summary.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}
