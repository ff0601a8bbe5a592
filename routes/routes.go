package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/pathao"
)

// SetupRoutes is the single entry-point that wires up the order, admin and
// courier route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, courier *pathao.Client) {
	// Order routes (JWT-protected)
	SetupOrderRoutes(r, db, courier)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db)

	// Courier reference-data routes
	SetupPathaoRoutes(r, courier)
}
