package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/inventory"
	"github.com/mahirlabs/order-management-api/models"
	"github.com/mahirlabs/order-management-api/pathao"
)

// -------- Request Structs --------

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	CustomerName    string             `json:"customer_name" binding:"required"`
	CustomerPhone   string             `json:"customer_phone" binding:"required"`
	CustomerAddress string             `json:"customer_address" binding:"required"`
	CityID          *int               `json:"city_id"`
	ZoneID          *int               `json:"zone_id"`
	DeliveryCharge  decimal.Decimal    `json:"delivery_charge"`
	Discount        decimal.Decimal    `json:"discount"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusProcessing):
		return models.OrderStatusProcessing, nil
	case string(models.OrderStatusCompleted):
		return models.OrderStatusCompleted, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// currentUserID reads the user id set by the auth middleware.
func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get("user_id"); ok {
		switch id := v.(type) {
		case uint:
			return id
		case float64:
			return uint(id)
		}
	}
	return 0
}

// -------- Core Logic --------

// CreateOrder assembles one order inside a single transaction: a fresh
// customer row, denormalized location names from the local mirror, and one
// fulfilled line item per request entry. Any failure rolls the whole thing
// back, stock decrements included.
func CreateOrder(db *gorm.DB, courier *pathao.Client, userID uint, req CreateOrderRequest) (*models.Order, error) {
	var created models.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		customer := models.Customer{
			Name:    req.CustomerName,
			Phone:   req.CustomerPhone,
			Address: req.CustomerAddress,
		}
		if err := tx.Create(&customer).Error; err != nil {
			return err
		}

		// Cache-only lookup; unresolved ids leave the names empty.
		cityName, zoneName := courier.LocationNames(req.CityID, req.ZoneID)

		order := models.Order{
			OrderRef:       generateOrderRef(),
			UserID:         userID,
			CustomerID:     customer.ID,
			CityID:         req.CityID,
			CityName:       cityName,
			ZoneID:         req.ZoneID,
			ZoneName:       zoneName,
			DeliveryCharge: req.DeliveryCharge,
			Discount:       req.Discount,
			TotalAmount:    decimal.Zero,
			Status:         models.OrderStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		subtotal := decimal.Zero
		for _, line := range req.Items {
			if line.Quantity < 1 {
				return fmt.Errorf("quantity must be at least 1 for product %d", line.ProductID)
			}

			var product models.Product
			if err := tx.Preload("ProductType").First(&product, line.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product with ID %d: %w", line.ProductID, gorm.ErrRecordNotFound)
				}
				return err
			}

			// Snapshot before Fulfill: a lost decrement race must report what
			// was available going in, not the post-drain remainder.
			available, err := inventory.TotalAvailable(tx, &product)
			if err != nil {
				return err
			}
			if available >= line.Quantity {
				item := models.OrderItem{
					OrderID:   order.ID,
					ProductID: product.ID,
					Quantity:  line.Quantity,
					UnitPrice: product.Price,
				}
				if err := tx.Create(&item).Error; err != nil {
					return err
				}
				ok, err := inventory.Fulfill(tx, &product, line.Quantity)
				if err != nil {
					return err
				}
				if ok {
					code := TrackingCode(product.ProductCode, product.Size, item.ID)
					if err := tx.Model(&item).UpdateColumn("tracking_code", code).Error; err != nil {
						return err
					}
					subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
					continue
				}
			}

			return &inventory.InsufficientStockError{
				Product:   product.DisplayName(),
				Requested: line.Quantity,
				Available: available,
			}
		}

		total := decimal.NewFromInt(subtotal.IntPart() + req.DeliveryCharge.IntPart() - req.Discount.IntPart())
		if err := tx.Model(&order).UpdateColumn("total_amount", total).Error; err != nil {
			return err
		}

		return tx.Preload("Customer").Preload("Items").First(&created, order.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// -------- Handlers --------

func CreateOrderHandler(db *gorm.DB, courier *pathao.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order, err := CreateOrder(db, courier, currentUserID(c), req)
		if err != nil {
			var stockErr *inventory.InsufficientStockError
			switch {
			case errors.As(err, &stockErr):
				c.JSON(http.StatusConflict, gin.H{"error": stockErr.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		broadcastOrderEvent("order_created", *order)
		c.JSON(http.StatusCreated, order)
	}
}

func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.
			Preload("Customer").
			Preload("Items").
			Preload("Items.Product").
			Order("created_at DESC")

		if status := c.Query("status"); status != "" {
			mapped, err := mapOrderStatus(status)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			query = query.Where("status = ?", mapped)
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
			return
		}
		var orders []models.Order
		if err := db.
			Where("user_id = ?", userID).
			Preload("Customer").
			Preload("Items").
			Preload("Items.Product").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GetOrderByIDHandler accepts a numeric id or an order_ref.
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		query := db.
			Preload("Customer").
			Preload("Items").
			Preload("Items.Product")
		// An order_ref is never purely numeric, and binding it against the
		// integer id column fails parameter conversion on postgres.
		if numericID, err := strconv.ParseUint(id, 10, 64); err == nil {
			query = query.Where("id = ?", numericID)
		} else {
			query = query.Where("order_ref = ?", id)
		}

		var order models.Order
		if err := query.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order status"})
			return
		}

		order.Status = newStatus
		broadcastOrderEvent("order_status_changed", order)
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("order_id = ?", orderID).
				Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id = ?", orderID).
				Delete(&models.Order{}).Error; err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}
