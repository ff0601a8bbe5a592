package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/models"
)

type ProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	ProductTypeID uint            `json:"product_type_id" binding:"required"`
	ProductCode   string          `json:"product_code" binding:"required,max=5,alphanum"`
	Size          string          `json:"size" binding:"required,max=20"`
	SizeGroupID   *uint           `json:"size_group_id"`
	Quantity      int             `json:"quantity" binding:"min=0"`
	Price         decimal.Decimal `json:"price" binding:"required"`
}

var minPrice = decimal.NewFromFloat(0.01)

func (r *ProductRequest) validate(db *gorm.DB) error {
	if r.Price.LessThan(minPrice) {
		return errors.New("price must be at least 0.01")
	}
	var productType models.ProductType
	if err := db.First(&productType, r.ProductTypeID).Error; err != nil {
		return errors.New("product type not found")
	}
	if r.SizeGroupID != nil {
		var group models.SizeGroup
		err := db.Where("id = ? AND product_type_id = ?", *r.SizeGroupID, r.ProductTypeID).
			First(&group).Error
		if err != nil {
			return errors.New("size group does not belong to the selected product type")
		}
	}
	return nil
}

// autoAssignSizeGroup finds the group whose mapping contains the product's
// size for its product type. Mirrors the manual selection: a product whose
// size is not mapped anywhere keeps a nil group and never substitutes.
func autoAssignSizeGroup(db *gorm.DB, p *models.Product) {
	if p.SizeGroupID != nil || p.Size == "" {
		return
	}
	var mapping models.SizeGroupMapping
	err := db.
		Joins("JOIN size_groups ON size_groups.id = size_group_mappings.size_group_id").
		Where("size_groups.product_type_id = ? AND size_group_mappings.size = ?", p.ProductTypeID, p.Size).
		First(&mapping).Error
	if err == nil {
		p.SizeGroupID = &mapping.SizeGroupID
	}
}

// CreateProduct adds a new variant. The (product type, name, size) triple
// must be unique; a size group is auto-assigned from the size mappings when
// none is chosen.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
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
			Where("product_type_id = ? AND name = ? AND size = ?", req.ProductTypeID, req.Name, req.Size).
			Count(&duplicate)
		if duplicate > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "a product with this type, name and size already exists"})
			return
		}

		product := models.Product{
			Name:          req.Name,
			ProductTypeID: req.ProductTypeID,
			ProductCode:   req.ProductCode,
			Size:          req.Size,
			SizeGroupID:   req.SizeGroupID,
			Quantity:      req.Quantity,
			Price:         req.Price,
		}
		autoAssignSizeGroup(db, &product)

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
