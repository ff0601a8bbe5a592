package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/models"
)

// DeleteProduct removes a variant unless order items reference it.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var references int64
		if err := db.Model(&models.OrderItem{}).
			Where("product_id = ?", product.ID).
			Count(&references).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check product orders"})
			return
		}
		if references > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete product with existing orders"})
			return
		}

		if err := db.Delete(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
