package routes

import (
	"github.com/gin-gonic/gin"

	pathaoControllers "github.com/mahirlabs/order-management-api/controllers/pathao"
	"github.com/mahirlabs/order-management-api/middleware"
	"github.com/mahirlabs/order-management-api/pathao"
)

func SetupPathaoRoutes(r *gin.Engine, courier *pathao.Client) {
	api := r.Group("/api")
	api.Use(middleware.ValidateToken)
	{
		api.GET("/cities", pathaoControllers.GetCitiesHandler(courier))
		api.GET("/zones/:cityID", pathaoControllers.GetZonesHandler(courier))
		api.GET("/stores", pathaoControllers.GetStoresHandler(courier))
		api.POST("/parse-address", pathaoControllers.ParseAddressHandler(courier))
	}
}
