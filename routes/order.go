package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/mahirlabs/order-management-api/controllers/order"
	productcontroller "github.com/mahirlabs/order-management-api/controllers/product"
	shippingControllers "github.com/mahirlabs/order-management-api/controllers/shipping"
	"github.com/mahirlabs/order-management-api/middleware"
	"github.com/mahirlabs/order-management-api/pathao"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, courier *pathao.Client) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Create a new order (fulfills stock across compatible sizes)
		orders.POST("", orderControllers.CreateOrderHandler(db, courier))

		// Fetch all orders, optionally filtered by ?status=
		orders.GET("", orderControllers.GetAllOrdersHandler(db))

		// Fetch orders for a specific user
		orders.GET("/user/:userID", orderControllers.GetUserOrdersHandler(db))

		// Fetch one order by numeric id or order_ref
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		// Update order status (pending, processing, completed, cancelled)
		orders.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))

		// Book a courier delivery for an order (at most once per order)
		orders.POST("/:orderID/shipping", shippingControllers.RequestShippingHandler(db, courier))

		// Delete an order
		orders.DELETE("/:orderID", orderControllers.DeleteOrderHandler(db))
	}

	// websocket endpoint for real-time order updates
	r.GET("/ws/orders", orderControllers.OrderWebSocketHandler)

	// Products available for the order form, with pooled availability
	r.GET("/products/available", middleware.ValidateToken, productcontroller.GetAvailableProducts(db))
}
