package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/models"
)

type ProductTypeRequest struct {
	Name        string `json:"name" binding:"required,max=50"`
	Description string `json:"description" binding:"max=200"`
}

func CreateProductType(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var duplicate int64
		db.Model(&models.ProductType{}).Where("name = ?", req.Name).Count(&duplicate)
		if duplicate > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a product type with this name already exists"})
			return
		}

		productType := models.ProductType{Name: req.Name, Description: req.Description}
		if err := db.Create(&productType).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product type"})
			return
		}
		c.JSON(http.StatusCreated, productType)
	}
}

func GetProductTypes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var productTypes []models.ProductType
		if err := db.Order("name").Find(&productTypes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product types"})
			return
		}
		c.JSON(http.StatusOK, productTypes)
	}
}

func UpdateProductType(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var productType models.ProductType
		if err := db.First(&productType, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product type not found"})
			return
		}

		var req ProductTypeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var duplicate int64
		db.Model(&models.ProductType{}).
			Where("name = ? AND id <> ?", req.Name, productType.ID).
			Count(&duplicate)
		if duplicate > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a product type with this name already exists"})
			return
		}

		productType.Name = req.Name
		productType.Description = req.Description
		if err := db.Save(&productType).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product type"})
			return
		}
		c.JSON(http.StatusOK, productType)
	}
}

func DeleteProductType(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var productType models.ProductType
		if err := db.First(&productType, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product type not found"})
			return
		}

		var products int64
		db.Model(&models.Product{}).Where("product_type_id = ?", productType.ID).Count(&products)
		if products > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete product type with existing products"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_type_id = ?", productType.ID).
				Delete(&models.SizeGroup{}).Error; err != nil {
				return err
			}
			return tx.Delete(&productType).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product type"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product type deleted successfully"})
	}
}
