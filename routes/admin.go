package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	productcontroller "github.com/mahirlabs/order-management-api/controllers/product"
	"github.com/mahirlabs/order-management-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key
// middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(db))
			productAdmin.GET("", productcontroller.GetProducts(db))
			productAdmin.GET("/:id", productcontroller.GetProductByID(db))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(db))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(db))
			productAdmin.GET("/export-excel", productcontroller.ExportInventoryToExcel(db))
		}

		// ─────────── Product Type Management ───────────
		typeAdmin := adminGroup.Group("/product-types")
		{
			typeAdmin.POST("", productcontroller.CreateProductType(db))
			typeAdmin.GET("", productcontroller.GetProductTypes(db))
			typeAdmin.PUT("/:id", productcontroller.UpdateProductType(db))
			typeAdmin.DELETE("/:id", productcontroller.DeleteProductType(db))
		}

		// ─────────── Size Group Management ───────────
		sizeGroupAdmin := adminGroup.Group("/size-groups")
		{
			sizeGroupAdmin.POST("", productcontroller.CreateSizeGroup(db))
			sizeGroupAdmin.GET("", productcontroller.GetSizeGroups(db))
			sizeGroupAdmin.GET("/product-type/:productTypeID", productcontroller.GetSizeGroupsForProductType(db))
			sizeGroupAdmin.PUT("/:id", productcontroller.UpdateSizeGroup(db))
			sizeGroupAdmin.DELETE("/:id", productcontroller.DeleteSizeGroup(db))
		}
	}
}
