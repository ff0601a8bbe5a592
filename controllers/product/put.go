package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/models"
)

// UpdateProduct replaces a variant's fields. Administrative quantity edits
// go through here; order fulfillment is the only other writer of stock.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := req.validate(db); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var duplicate int64
		db.Model(&models.Product{}).
			Where("product_type_id = ? AND name = ? AND size = ? AND id <> ?",
				req.ProductTypeID, req.Name, req.Size, product.ID).
			Count(&duplicate)
		if duplicate > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a product with this type, name and size already exists"})
			return
		}

		product.Name = req.Name
		product.ProductTypeID = req.ProductTypeID
		product.ProductCode = req.ProductCode
		product.Size = req.Size
		product.SizeGroupID = req.SizeGroupID
		product.Quantity = req.Quantity
		product.Price = req.Price
		autoAssignSizeGroup(db, &product)

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
