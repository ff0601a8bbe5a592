// Package shippingControllers books courier deliveries for existing orders.
package shippingControllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/models"
	"github.com/mahirlabs/order-management-api/pathao"
)

// ErrAlreadyRequested rejects a second booking attempt; an order ships at
// most once and the check happens before any remote call.
var ErrAlreadyRequested = errors.New("shipping already requested for this order")

type RequestShippingRequest struct {
	StoreID int `json:"store_id" binding:"required"`
}

// Result reports the booking outcome. Saved is false when the courier
// accepted the consignment but the local tracking row could not be written;
// the order is still flagged as shipped because the remote side of the
// world already changed.
type Result struct {
	Delivery models.PathaoDelivery
	Saved    bool
}

// RequestShipping books one order with the courier from the given store.
func RequestShipping(db *gorm.DB, courier *pathao.Client, orderID uint, storeID int) (*Result, error) {
	var order models.Order
	if err := db.Preload("Customer").Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}
	if order.ShippingRequested {
		return nil, ErrAlreadyRequested
	}

	booking, err := courier.BookDelivery(&order, storeID)
	if err != nil {
		return nil, err
	}

	delivery := models.PathaoDelivery{
		ConsignmentID: booking.ConsignmentID,
		OrderID:       order.ID,
		OrderStatus:   booking.OrderStatus,
		DeliveryFee:   booking.DeliveryFee,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&delivery).Error; err != nil {
			return err
		}
		return tx.Model(&order).Update("shipping_requested", true).Error
	})
	if err != nil {
		log.Printf("⚠️ shipping: consignment %s accepted but tracking save failed: %v", booking.ConsignmentID, err)
		if flagErr := db.Model(&order).Update("shipping_requested", true).Error; flagErr != nil {
			log.Printf("⚠️ shipping: failed to flag order %d as shipped: %v", order.ID, flagErr)
		}
		return &Result{Delivery: delivery, Saved: false}, nil
	}
	return &Result{Delivery: delivery, Saved: true}, nil
}

func RequestShippingHandler(db *gorm.DB, courier *pathao.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid orderID"})
			return
		}

		var req RequestShippingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := RequestShipping(db, courier, orderID, req.StoreID)
		if err != nil {
			var apiErr *pathao.APIError
			switch {
			case errors.Is(err, ErrAlreadyRequested):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			case errors.As(err, &apiErr):
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			}
			return
		}

		resp := gin.H{
			"delivery": result.Delivery,
			"saved":    result.Saved,
		}
		if !result.Saved {
			resp["warning"] = "shipping requested, but tracking info could not be saved"
		}
		c.JSON(http.StatusOK, resp)
	}
}

func parseOrderID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
