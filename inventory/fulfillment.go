// Package inventory implements stock fulfillment with size-group
// substitution: an order line may drain the requested variant plus every
// variant sharing its product type, name and size group.
package inventory

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/models"
)

// InsufficientStockError reports that a request exceeds the product's stock
// plus its compatible pool.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d items available for %s (requested %d)", e.Available, e.Product, e.Requested)
}

// CompatiblePool returns the other variants eligible for substitution:
// same product type, same name, same size group, ascending id. A product
// without a size group has an empty pool.
func CompatiblePool(db *gorm.DB, p *models.Product) ([]models.Product, error) {
	if p.SizeGroupID == nil {
		return nil, nil
	}
	var pool []models.Product
	err := db.
		Where("product_type_id = ? AND name = ? AND size_group_id = ? AND id <> ?",
			p.ProductTypeID, p.Name, *p.SizeGroupID, p.ID).
		Order("id ASC").
		Find(&pool).Error
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// TotalAvailable is the product's own stock plus its compatible pool.
func TotalAvailable(db *gorm.DB, p *models.Product) (int, error) {
	pool, err := CompatiblePool(db, p)
	if err != nil {
		return 0, err
	}
	total := p.Quantity
	for _, c := range pool {
		total += c.Quantity
	}
	return total, nil
}

// CanFulfill reports whether requested units can be drawn from the product
// and its pool.
func CanFulfill(db *gorm.DB, p *models.Product, requested int) (bool, error) {
	total, err := TotalAvailable(db, p)
	if err != nil {
		return false, err
	}
	return total >= requested, nil
}

// Fulfill greedily drains requested units: the product itself first, then
// pool members in ascending id order. Each step is a guarded decrement
// (quantity >= used) so stock never goes negative and a concurrent writer
// makes the guard fail instead of overselling. Fulfill must run inside the
// caller's transaction; a false return leaves partial decrements for the
// transaction rollback to discard.
func Fulfill(tx *gorm.DB, p *models.Product, requested int) (bool, error) {
	remaining := requested

	if remaining > 0 && p.Quantity > 0 {
		used := min(p.Quantity, remaining)
		ok, err := decrement(tx, p.ID, used)
		if err != nil || !ok {
			return false, err
		}
		p.Quantity -= used
		remaining -= used
	}

	if remaining > 0 {
		pool, err := CompatiblePool(tx, p)
		if err != nil {
			return false, err
		}
		for i := range pool {
			if remaining <= 0 {
				break
			}
			c := &pool[i]
			if c.Quantity <= 0 {
				continue
			}
			used := min(c.Quantity, remaining)
			ok, err := decrement(tx, c.ID, used)
			if err != nil || !ok {
				return false, err
			}
			remaining -= used
		}
	}

	if remaining > 0 {
		return false, nil
	}

	err := tx.Model(&models.Product{}).
		Where("id = ?", p.ID).
		UpdateColumn("updated_at", time.Now().UTC()).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// decrement subtracts qty from one product row, refusing to go below zero.
func decrement(tx *gorm.DB, productID uint, qty int) (bool, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
