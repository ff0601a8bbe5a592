package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/models"
)

type SizeGroupRequest struct {
	Name          string `json:"name" binding:"required,max=50"`
	ProductTypeID uint   `json:"product_type_id" binding:"required"`
	Description   string `json:"description" binding:"max=200"`
	// Comma-separated size list, e.g. "S, M, L, XL".
	Sizes string `json:"sizes" binding:"required"`
}

func splitSizes(raw string) []string {
	var sizes []string
	seen := make(map[string]bool)
	for _, token := range strings.Split(raw, ",") {
		size := strings.TrimSpace(token)
		if size == "" || seen[size] {
			continue
		}
		seen[size] = true
		sizes = append(sizes, size)
	}
	return sizes
}

// CreateSizeGroup creates the group with its size mappings and assigns every
// existing unassigned product of the same type whose size is in the list.
func CreateSizeGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SizeGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sizes := splitSizes(req.Sizes)
		if len(sizes) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one size is required"})
			return
		}

		var productType models.ProductType
		if err := db.First(&productType, req.ProductTypeID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product type not found"})
			return
		}

		var duplicate int64
		db.Model(&models.SizeGroup{}).
			Where("name = ? AND product_type_id = ?", req.Name, req.ProductTypeID).
			Count(&duplicate)
		if duplicate > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a size group with this name already exists for the product type"})
			return
		}

		group := models.SizeGroup{
			Name:          req.Name,
			ProductTypeID: req.ProductTypeID,
			Description:   req.Description,
		}
		var assigned int64
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&group).Error; err != nil {
				return err
			}
			for _, size := range sizes {
				mapping := models.SizeGroupMapping{SizeGroupID: group.ID, Size: size}
				if err := tx.Create(&mapping).Error; err != nil {
					return err
				}
			}

			res := tx.Model(&models.Product{}).
				Where("product_type_id = ? AND size IN ? AND size_group_id IS NULL", group.ProductTypeID, sizes).
				UpdateColumn("size_group_id", group.ID)
			if res.Error != nil {
				return res.Error
			}
			assigned = res.RowsAffected
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create size group"})
			return
		}

		if err := db.Preload("Mappings").First(&group, group.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create size group"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"size_group": group, "products_assigned": assigned})
	}
}

func GetSizeGroups(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("ProductType").Preload("Mappings")
		if productTypeID := c.Query("product_type_id"); productTypeID != "" {
			query = query.Where("product_type_id = ?", productTypeID)
		}

		var groups []models.SizeGroup
		if err := query.Order("name").Find(&groups).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch size groups"})
			return
		}
		c.JSON(http.StatusOK, groups)
	}
}

// GetSizeGroupsForProductType backs the dynamic order/product forms.
func GetSizeGroupsForProductType(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productTypeID := c.Param("productTypeID")

		var groups []models.SizeGroup
		if err := db.Preload("Mappings").
			Where("product_type_id = ?", productTypeID).
			Find(&groups).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch size groups"})
			return
		}

		type sizeGroupOption struct {
			ID    uint     `json:"id"`
			Name  string   `json:"name"`
			Sizes []string `json:"sizes"`
		}
		out := make([]sizeGroupOption, 0, len(groups))
		for i := range groups {
			out = append(out, sizeGroupOption{
				ID:    groups[i].ID,
				Name:  groups[i].Name,
				Sizes: groups[i].Sizes(),
			})
		}
		c.JSON(http.StatusOK, out)
	}
}

// UpdateSizeGroup rewrites the group's fields and replaces its size
// mappings with the submitted list.
func UpdateSizeGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var group models.SizeGroup
		if err := db.First(&group, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Size group not found"})
			return
		}

		var req SizeGroupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		sizes := splitSizes(req.Sizes)
		if len(sizes) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at least one size is required"})
			return
		}

		var duplicate int64
		db.Model(&models.SizeGroup{}).
			Where("name = ? AND product_type_id = ? AND id <> ?", req.Name, req.ProductTypeID, group.ID).
			Count(&duplicate)
		if duplicate > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a size group with this name already exists for the product type"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			group.Name = req.Name
			group.ProductTypeID = req.ProductTypeID
			group.Description = req.Description
			if err := tx.Save(&group).Error; err != nil {
				return err
			}

			if err := tx.Where("size_group_id = ?", group.ID).
				Delete(&models.SizeGroupMapping{}).Error; err != nil {
				return err
			}
			for _, size := range sizes {
				mapping := models.SizeGroupMapping{SizeGroupID: group.ID, Size: size}
				if err := tx.Create(&mapping).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update size group"})
			return
		}

		if err := db.Preload("Mappings").First(&group, group.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update size group"})
			return
		}
		c.JSON(http.StatusOK, group)
	}
}

func DeleteSizeGroup(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var group models.SizeGroup
		if err := db.First(&group, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Size group not found"})
			return
		}

		var products int64
		db.Model(&models.Product{}).Where("size_group_id = ?", group.ID).Count(&products)
		if products > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete size group with existing products"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("size_group_id = ?", group.ID).
				Delete(&models.SizeGroupMapping{}).Error; err != nil {
				return err
			}
			return tx.Delete(&group).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete size group"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Size group deleted successfully"})
	}
}
