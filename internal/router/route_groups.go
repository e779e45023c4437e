package router

import (
	"kiosco_pos_backend/internal/handlers"
	"kiosco_pos_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCategoryRoutes sets up the category routes. Writes are admin-only;
// reads are open to any operator.
func SetupCategoryRoutes(authenticatedGroup *gin.RouterGroup, categoryHandler *handlers.CategoryHandler) {
	categoryRoutes := authenticatedGroup.Group("/categories")
	{
		categoryRoutes.GET("", categoryHandler.GetCategories)
		categoryRoutes.GET("/:id", categoryHandler.GetCategoryByID)

		adminOnly := categoryRoutes.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware("admin"))
		{
			adminOnly.POST("", categoryHandler.CreateCategory)
			adminOnly.PUT("/:id", categoryHandler.UpdateCategory)
			adminOnly.DELETE("/:id", categoryHandler.DeactivateCategory)
		}
	}
}

// SetupProductRoutes sets up the product routes. The search endpoint serves
// the point-of-sale screen, so cashiers use it too.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/low-stock", productHandler.GetLowStockProducts)
		productRoutes.GET("/search", productHandler.SearchProducts)
		productRoutes.GET("/suggest-sku", productHandler.SuggestSKU)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.GET("/sku/:sku", productHandler.GetProductBySKU)

		adminOnly := productRoutes.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware("admin"))
		{
			adminOnly.POST("", productHandler.CreateProduct)
			adminOnly.PUT("/:id", productHandler.UpdateProduct)
			adminOnly.DELETE("/:id", productHandler.DeleteProduct)
		}
	}
}

// SetupSaleRoutes sets up the sale routes.
func SetupSaleRoutes(authenticatedGroup *gin.RouterGroup, saleHandler *handlers.SaleHandler) {
	saleRoutes := authenticatedGroup.Group("/sales")
	saleRoutes.Use(middleware.RoleAuthMiddleware("admin", "cashier"))
	{
		saleRoutes.POST("", saleHandler.CreateSale)
		saleRoutes.GET("", saleHandler.GetSales)
		saleRoutes.GET("/:id", saleHandler.GetSaleByID)
	}
}

// SetupCashRoutes sets up the cash register routes.
func SetupCashRoutes(authenticatedGroup *gin.RouterGroup, cashHandler *handlers.CashHandler) {
	cashRoutes := authenticatedGroup.Group("/cash")
	cashRoutes.Use(middleware.RoleAuthMiddleware("admin", "cashier"))
	{
		cashRoutes.GET("/balance", cashHandler.GetBalance)
		cashRoutes.POST("/withdrawals", cashHandler.RecordWithdrawal)
		cashRoutes.GET("/withdrawals", cashHandler.GetWithdrawals)
		cashRoutes.GET("/daily-summary", cashHandler.GetDailySummary)
	}
}
