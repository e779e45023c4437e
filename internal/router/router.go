package router

import (
	"database/sql"

	"kiosco_pos_backend/internal/handlers"
	"kiosco_pos_backend/internal/middleware"
	"kiosco_pos_backend/internal/repositories"
	"kiosco_pos_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	cashRepo := repositories.NewCashMovementRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	categoryService := services.NewCategoryService(categoryRepo, db)
	productService := services.NewProductService(productRepo, categoryRepo, db)
	saleService := services.NewSaleService(saleRepo, productRepo, db)
	cashService := services.NewCashService(cashRepo, saleRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	saleHandler := handlers.NewSaleHandler(saleService)
	cashHandler := handlers.NewCashHandler(cashService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupCategoryRoutes(authenticated, categoryHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupSaleRoutes(authenticated, saleHandler)
		SetupCashRoutes(authenticated, cashHandler)
	}
}

func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
	group.POST("/refresh-token", authHandler.Refresh)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.Logout)
	group.GET("/me", authHandler.GetCurrentOperator)
	// Only admins can create new operators.
	group.POST("/register", middleware.RoleAuthMiddleware("admin"), authHandler.RegisterOperator)
}
