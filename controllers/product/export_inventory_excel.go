package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/inventory"
	"github.com/mahirlabs/order-management-api/models"
)

// ExportInventoryToExcel streams the full variant list as an .xlsx sheet,
// including the pooled availability per size group.
func ExportInventoryToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("ProductType").Order("name, size").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Inventory")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "ProductType", "Name", "Code", "Size", "SizeGroupID",
			"Quantity", "TotalAvailable", "Price", "CreatedAt", "UpdatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for i := range products {
			p := &products[i]
			total, err := inventory.TotalAvailable(db, p)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute availability"})
				return
			}

			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.ProductType.Name)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.ProductCode)
			row.AddCell().SetValue(p.Size)
			if p.SizeGroupID != nil {
				row.AddCell().SetValue(*p.SizeGroupID)
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(p.Quantity)
			row.AddCell().SetValue(total)
			row.AddCell().SetValue(p.Price.StringFixed(2))
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=inventory.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
