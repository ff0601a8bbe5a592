// Package pathaoControllers exposes the courier reference data (mirrored
// cities, zones and stores) and the address parser over HTTP.
package pathaoControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mahirlabs/order-management-api/pathao"
)

// GetCitiesHandler serves the mirrored city list. ?refresh=true forces a
// remote refetch; otherwise fresh cache rows short-circuit the network.
func GetCitiesHandler(courier *pathao.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cities := courier.GetCities(c.Query("refresh") == "true")
		c.JSON(http.StatusOK, cities)
	}
}

func GetZonesHandler(courier *pathao.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cityID, err := strconv.Atoi(c.Param("cityID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cityID"})
			return
		}
		zones := courier.GetZones(cityID, c.Query("refresh") == "true")
		c.JSON(http.StatusOK, zones)
	}
}

func GetStoresHandler(courier *pathao.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		stores := courier.GetStores(c.Query("refresh") == "true")
		c.JSON(http.StatusOK, stores)
	}
}

type ParseAddressRequest struct {
	Address string `json:"address" binding:"required"`
}

func ParseAddressHandler(courier *pathao.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ParseAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		address := strings.TrimSpace(req.Address)
		if address == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
			return
		}

		parsed, err := courier.ParseAddress(address)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to parse address"})
			return
		}
		if len(parsed) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Failed to parse address or no results found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": parsed})
	}
}
