package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/inventory"
	"github.com/mahirlabs/order-management-api/models"
)

func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("search")
		sortBy := c.DefaultQuery("sort_by", "name")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "asc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "asc"
		}
		switch sortBy {
		case "name", "size", "quantity", "price", "created_at", "updated_at":
		default:
			sortBy = "name"
		}

		query := db.Model(&models.Product{}).Preload("ProductType")
		if search != "" {
			query = query.Where("name LIKE ?", "%"+search+"%")
		}

		var products []models.Product
		if err := query.Order(sortBy + " " + sortOrder).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.Preload("ProductType").First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GetAvailableProducts lists in-stock variants for the order form, each with
// the pooled availability across its size group.
func GetAvailableProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("ProductType").
			Where("quantity > 0").
			Order("name").
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		type availableProduct struct {
			ID             uint   `json:"id"`
			Name           string `json:"name"`
			ProductCode    string `json:"product_code"`
			Size           string `json:"size"`
			Price          string `json:"price"`
			Stock          int    `json:"stock"`
			TotalAvailable int    `json:"total_available"`
		}

		out := make([]availableProduct, 0, len(products))
		for i := range products {
			p := &products[i]
			total, err := inventory.TotalAvailable(db, p)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
				return
			}
			out = append(out, availableProduct{
				ID:             p.ID,
				Name:           p.DisplayName(),
				ProductCode:    p.ProductCode,
				Size:           p.Size,
				Price:          p.Price.StringFixed(2),
				Stock:          p.Quantity,
				TotalAvailable: total,
			})
		}
		c.JSON(http.StatusOK, out)
	}
}
