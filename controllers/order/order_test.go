package orderControllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mahirlabs/order-management-api/inventory"
	"github.com/mahirlabs/order-management-api/models"
	"github.com/mahirlabs/order-management-api/pathao"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named shared-cache database keeps every pool connection on the same
	// in-memory store; a plain ":memory:" DSN gives each connection its own.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.ProductType{},
		&models.SizeGroup{},
		&models.SizeGroupMapping{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.PathaoCity{},
		&models.PathaoZone{},
		&models.PathaoToken{},
	))
	return db
}

// newTestCourier builds a client that never leaves the local mirror;
// CreateOrder only uses its cache-only LocationNames lookup.
func newTestCourier(t *testing.T, db *gorm.DB) *pathao.Client {
	t.Helper()
	return pathao.NewClient(pathao.Config{BaseURL: "http://127.0.0.1:1"}, db)
}

func seedLocations(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.PathaoCity{CityID: 1, CityName: "Dhaka", LastUpdated: now}).Error)
	require.NoError(t, db.Create(&models.PathaoZone{ZoneID: 10, ZoneName: "Banani", CityID: 1, LastUpdated: now}).Error)
}

func seedVariants(t *testing.T, db *gorm.DB, primaryQty, siblingQty int, price decimal.Decimal) (primary, sibling models.Product) {
	t.Helper()

	productType := models.ProductType{Name: "Clothing"}
	require.NoError(t, db.Create(&productType).Error)
	group := models.SizeGroup{Name: "Standard", ProductTypeID: productType.ID}
	require.NoError(t, db.Create(&group).Error)

	primary = models.Product{
		Name: "Classic Tee", ProductTypeID: productType.ID, ProductCode: "CT01",
		Size: "M", SizeGroupID: &group.ID, Quantity: primaryQty, Price: price,
	}
	require.NoError(t, db.Create(&primary).Error)
	sibling = models.Product{
		Name: "Classic Tee", ProductTypeID: productType.ID, ProductCode: "CT01",
		Size: "L", SizeGroupID: &group.ID, Quantity: siblingQty, Price: price,
	}
	require.NoError(t, db.Create(&sibling).Error)
	return primary, sibling
}

func intPtr(v int) *int { return &v }

func TestCreateOrderComputesTruncatedTotal(t *testing.T) {
	db := newTestDB(t)
	seedLocations(t, db)
	primary, _ := seedVariants(t, db, 5, 3, decimal.NewFromFloat(1599.50))

	req := CreateOrderRequest{
		CustomerName:    "Rahim Uddin",
		CustomerPhone:   "01711000000",
		CustomerAddress: "House 7, Road 2, Banani",
		CityID:          intPtr(1),
		ZoneID:          intPtr(10),
		DeliveryCharge:  decimal.NewFromInt(50),
		Discount:        decimal.NewFromInt(100),
		Items: []OrderItemRequest{
			{ProductID: primary.ID, Quantity: 2},
		},
	}

	order, err := CreateOrder(db, newTestCourier(t, db), 1, req)
	require.NoError(t, err)

	// 2 x 1599.50 = 3199.0 -> 3199 + 50 - 100
	assert.Equal(t, int64(3149), order.TotalAmount.IntPart())
	assert.Equal(t, "Dhaka", order.CityName)
	assert.Equal(t, "Banani", order.ZoneName)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.OrderRef)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(1599.50)))
	assert.Len(t, item.TrackingCode, 12)
	assert.Equal(t, TrackingCode("CT01", "M", item.ID), item.TrackingCode)

	var customer models.Customer
	require.NoError(t, db.First(&customer, order.CustomerID).Error)
	assert.Equal(t, "Rahim Uddin", customer.Name)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, primary.ID).Error)
	assert.Equal(t, 3, reloaded.Quantity)
}

func TestCreateOrderDrawsFromCompatiblePool(t *testing.T) {
	db := newTestDB(t)
	primary, sibling := seedVariants(t, db, 5, 3, decimal.NewFromInt(500))

	req := CreateOrderRequest{
		CustomerName:    "Karim",
		CustomerPhone:   "01811000000",
		CustomerAddress: "Mirpur 10",
		Items: []OrderItemRequest{
			{ProductID: primary.ID, Quantity: 7},
		},
	}

	order, err := CreateOrder(db, newTestCourier(t, db), 1, req)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), order.TotalAmount.IntPart())

	var p, s models.Product
	require.NoError(t, db.First(&p, primary.ID).Error)
	require.NoError(t, db.First(&s, sibling.ID).Error)
	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, 1, s.Quantity)
}

func TestCreateOrderInsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	primary, sibling := seedVariants(t, db, 5, 3, decimal.NewFromInt(500))

	req := CreateOrderRequest{
		CustomerName:    "Karim",
		CustomerPhone:   "01811000000",
		CustomerAddress: "Mirpur 10",
		Items: []OrderItemRequest{
			{ProductID: primary.ID, Quantity: 9},
		},
	}

	_, err := CreateOrder(db, newTestCourier(t, db), 1, req)
	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 8, stockErr.Available)
	assert.Contains(t, stockErr.Error(), "Classic Tee")

	var customers, orders, items int64
	db.Model(&models.Customer{}).Count(&customers)
	db.Model(&models.Order{}).Count(&orders)
	db.Model(&models.OrderItem{}).Count(&items)
	assert.Zero(t, customers)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	var p, s models.Product
	require.NoError(t, db.First(&p, primary.ID).Error)
	require.NoError(t, db.First(&s, sibling.ID).Error)
	assert.Equal(t, 5, p.Quantity)
	assert.Equal(t, 3, s.Quantity)
}

func TestCreateOrderMixedLinesRollBackOnLaterFailure(t *testing.T) {
	db := newTestDB(t)
	primary, sibling := seedVariants(t, db, 5, 3, decimal.NewFromInt(500))

	req := CreateOrderRequest{
		CustomerName:    "Karim",
		CustomerPhone:   "01811000000",
		CustomerAddress: "Mirpur 10",
		Items: []OrderItemRequest{
			{ProductID: primary.ID, Quantity: 4},
			{ProductID: sibling.ID, Quantity: 5},
		},
	}

	_, err := CreateOrder(db, newTestCourier(t, db), 1, req)
	var stockErr *inventory.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// Availability is snapshotted before the failing line drains anything:
	// sibling 3 plus what the first line left of the primary.
	assert.Equal(t, 4, stockErr.Available)

	// The first line's decrement must not survive the failed second line.
	var p models.Product
	require.NoError(t, db.First(&p, primary.ID).Error)
	assert.Equal(t, 5, p.Quantity)
}

func TestGetOrderByIDHandlerAcceptsOrderRef(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	customer := models.Customer{Name: "Rahim Uddin", Phone: "01711000000", Address: "Banani"}
	require.NoError(t, db.Create(&customer).Error)
	order := models.Order{
		OrderRef:    "20260829120000-1b9f2c54-7d6e-4a31-9c0d-5e8f7a6b4c21",
		UserID:      1,
		CustomerID:  customer.ID,
		TotalAmount: decimal.NewFromInt(500),
		Status:      models.OrderStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)

	r := gin.New()
	r.GET("/orders/:orderID", GetOrderByIDHandler(db))

	// Lookup by order_ref must never bind the ref against the integer id
	// column; postgres refuses that conversion outright.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/"+order.OrderRef, nil))
	require.Equal(t, http.StatusOK, w.Code)

	var byRef models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byRef))
	assert.Equal(t, order.ID, byRef.ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var byID models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &byID))
	assert.Equal(t, order.OrderRef, byID.OrderRef)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/20260829120000-no-such-ref", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	db := newTestDB(t)

	req := CreateOrderRequest{
		CustomerName:    "Karim",
		CustomerPhone:   "01811000000",
		CustomerAddress: "Mirpur 10",
		Items: []OrderItemRequest{
			{ProductID: 4242, Quantity: 1},
		},
	}

	_, err := CreateOrder(db, newTestCourier(t, db), 1, req)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateOrderUnresolvedLocationLeavesNamesEmpty(t *testing.T) {
	db := newTestDB(t)
	primary, _ := seedVariants(t, db, 5, 3, decimal.NewFromInt(500))

	req := CreateOrderRequest{
		CustomerName:    "Karim",
		CustomerPhone:   "01811000000",
		CustomerAddress: "Mirpur 10",
		CityID:          intPtr(99),
		ZoneID:          intPtr(999),
		Items: []OrderItemRequest{
			{ProductID: primary.ID, Quantity: 1},
		},
	}

	order, err := CreateOrder(db, newTestCourier(t, db), 1, req)
	require.NoError(t, err)
	assert.Empty(t, order.CityName)
	assert.Empty(t, order.ZoneName)
}

func TestMapOrderStatus(t *testing.T) {
	status, err := mapOrderStatus("Processing")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, status)

	_, err = mapOrderStatus("shipped")
	assert.Error(t, err)
}
