package handlers

import (
	"errors"
	"net/http"

	"kiosco_pos_backend/internal/middleware"
	"kiosco_pos_backend/internal/services"
	"kiosco_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// RegisterOperator handles operator registration.
func (h *AuthHandler) RegisterOperator(c *gin.Context) {
	var req services.RegisterOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "RegisterOperator: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	operator, err := h.authService.RegisterOperator(req)
	if err != nil {
		utils.LogError(err, "RegisterOperator: Error from authService.RegisterOperator")
		if errors.Is(err, services.ErrUsernameExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username already exists.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidRole) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Specified role not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to register operator.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, operator)
}

// Login handles operator login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "Login: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	authResp, err := h.authService.Login(req)
	if err != nil {
		utils.LogError(err, "Login: Error from authService.Login")
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to login.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// GetCurrentOperator retrieves the profile of the authenticated operator.
func (h *AuthHandler) GetCurrentOperator(c *gin.Context) {
	operatorIDRaw, exists := c.Get(middleware.ContextOperatorID)
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Operator not authenticated.", "Missing operator ID in context"))
		return
	}

	operatorID, ok := operatorIDRaw.(int64)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Operator ID format incorrect.", "Invalid operator ID format in context"))
		return
	}

	operator, err := h.authService.GetOperatorProfile(operatorID)
	if err != nil {
		utils.LogError(err, "GetCurrentOperator: Error from authService.GetOperatorProfile for ID "+utils.Int64ToStr(operatorID))
		if errors.Is(err, services.ErrOperatorNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Operator profile not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve operator profile.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, operator)
}

// Refresh exchanges a refresh token for a new token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	authResp, err := h.authService.Refresh(req)
	if err != nil {
		utils.LogError(err, "Refresh: Error from authService.Refresh")
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired refresh token.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to refresh token.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// Logout handles operator logout.
// For stateless JWT this is primarily a client-side action.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully. Please discard your token."})
}
