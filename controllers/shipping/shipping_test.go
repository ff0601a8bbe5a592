package shippingControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/models"
	"github.com/mahirlabs/order-management-api/pathao"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.PathaoToken{},
		&models.PathaoDelivery{},
	))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, shippingRequested bool) models.Order {
	t.Helper()

	customer := models.Customer{Name: "Rahim Uddin", Phone: "01711000000", Address: "Banani, Dhaka"}
	require.NoError(t, db.Create(&customer).Error)

	cityID, zoneID := 1, 10
	order := models.Order{
		OrderRef:          "1724900000-abc",
		UserID:            1,
		CustomerID:        customer.ID,
		CityID:            &cityID,
		ZoneID:            &zoneID,
		ShippingRequested: shippingRequested,
		TotalAmount:       decimal.NewFromInt(3149),
		Items: []models.OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(1500)},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func newCourier(t *testing.T, db *gorm.DB, bookings *atomic.Int64, response map[string]any) *pathao.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bookings.Add(1)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	t.Cleanup(srv.Close)

	require.NoError(t, db.Create(&models.PathaoToken{
		Provider:     "pathao",
		AccessToken:  "token",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().UTC().Add(time.Hour),
	}).Error)

	return pathao.NewClient(pathao.Config{BaseURL: srv.URL}, db)
}

func TestRequestShippingBooksAndPersists(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db, false)

	var bookings atomic.Int64
	courier := newCourier(t, db, &bookings, map[string]any{
		"code":    200,
		"message": "Order created",
		"data": map[string]any{
			"consignment_id": "DX123456",
			"order_status":   "Pending",
			"delivery_fee":   80,
		},
	})

	result, err := RequestShipping(db, courier, order.ID, 7)
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, "DX123456", result.Delivery.ConsignmentID)
	assert.EqualValues(t, 1, bookings.Load())

	var delivery models.PathaoDelivery
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&delivery).Error)
	assert.Equal(t, "DX123456", delivery.ConsignmentID)
	assert.True(t, delivery.DeliveryFee.Equal(decimal.NewFromInt(80)))

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.True(t, reloaded.ShippingRequested)
}

func TestRequestShippingRejectsDoubleBooking(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db, true)

	var bookings atomic.Int64
	courier := newCourier(t, db, &bookings, map[string]any{"code": 200})

	_, err := RequestShipping(db, courier, order.ID, 7)
	require.ErrorIs(t, err, ErrAlreadyRequested)
	assert.Zero(t, bookings.Load(), "the duplicate check must run before the remote call")

	var deliveries int64
	db.Model(&models.PathaoDelivery{}).Count(&deliveries)
	assert.Zero(t, deliveries)
}

func TestRequestShippingUnknownOrder(t *testing.T) {
	db := newTestDB(t)

	var bookings atomic.Int64
	courier := newCourier(t, db, &bookings, map[string]any{"code": 200})

	_, err := RequestShipping(db, courier, 4242, 7)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, bookings.Load())
}

func TestRequestShippingCourierRejection(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db, false)

	var bookings atomic.Int64
	courier := newCourier(t, db, &bookings, map[string]any{
		"code":    422,
		"message": "recipient_phone is invalid",
	})

	_, err := RequestShipping(db, courier, order.ID, 7)
	require.Error(t, err)

	// A failed booking leaves the order untouched.
	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.False(t, reloaded.ShippingRequested)

	var deliveries int64
	db.Model(&models.PathaoDelivery{}).Count(&deliveries)
	assert.Zero(t, deliveries)
}

func TestRequestShippingStillFlagsOrderWhenSaveFails(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db, false)

	// A delivery row with the same consignment id forces the local insert to
	// violate the unique index after the remote booking succeeds.
	require.NoError(t, db.Create(&models.PathaoDelivery{
		ConsignmentID: "DX123456",
		OrderID:       999,
		OrderStatus:   "Pending",
		DeliveryFee:   decimal.NewFromInt(80),
	}).Error)

	var bookings atomic.Int64
	courier := newCourier(t, db, &bookings, map[string]any{
		"code":    200,
		"message": "Order created",
		"data": map[string]any{
			"consignment_id": "DX123456",
			"order_status":   "Pending",
			"delivery_fee":   80,
		},
	})

	result, err := RequestShipping(db, courier, order.ID, 7)
	require.NoError(t, err)
	assert.False(t, result.Saved)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.True(t, reloaded.ShippingRequested, "the remote side already changed, so the order is flagged")
}
