package pathao

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mahirlabs/order-management-api/models"
)

// Reference-data endpoints wrap their records twice: {"data": {"data": [...]}}.
type cityListResponse struct {
	Data struct {
		Data []struct {
			CityID   int    `json:"city_id"`
			CityName string `json:"city_name"`
		} `json:"data"`
	} `json:"data"`
}

type zoneListResponse struct {
	Data struct {
		Data []struct {
			ZoneID   int    `json:"zone_id"`
			ZoneName string `json:"zone_name"`
		} `json:"data"`
	} `json:"data"`
}

type storeListResponse struct {
	Data struct {
		Data []struct {
			StoreID      int    `json:"store_id"`
			StoreName    string `json:"store_name"`
			StoreAddress string `json:"store_address"`
		} `json:"data"`
	} `json:"data"`
}

// GetCities returns the mirrored city list. Any row fresher than 24h
// short-circuits the remote call unless forceRefresh is set. A failed fetch
// logs and serves whatever is cached, stale included; the result is empty
// only when the mirror itself is empty.
func (c *Client) GetCities(forceRefresh bool) []models.PathaoCity {
	if !forceRefresh {
		var fresh []models.PathaoCity
		err := c.db.Where("last_updated > ?", staleCutoff()).Find(&fresh).Error
		if err == nil && len(fresh) > 0 {
			return fresh
		}
	}

	if err := c.fetchCities(); err != nil {
		log.Printf("pathao: fetching cities failed, serving cached data: %v", err)
	}

	// Always a list, even when the mirror is empty, so handlers marshal
	// [] rather than null.
	cities := []models.PathaoCity{}
	if err := c.db.Find(&cities).Error; err != nil {
		log.Printf("pathao: reading city cache failed: %v", err)
	}
	return cities
}

// GetZones returns the mirrored zones for one city, with the same caching
// policy as GetCities scoped to that city.
func (c *Client) GetZones(cityID int, forceRefresh bool) []models.PathaoZone {
	if !forceRefresh {
		var fresh []models.PathaoZone
		err := c.db.Where("city_id = ? AND last_updated > ?", cityID, staleCutoff()).Find(&fresh).Error
		if err == nil && len(fresh) > 0 {
			return fresh
		}
	}

	if err := c.fetchZones(cityID); err != nil {
		log.Printf("pathao: fetching zones for city %d failed, serving cached data: %v", cityID, err)
	}

	zones := []models.PathaoZone{}
	if err := c.db.Where("city_id = ?", cityID).Find(&zones).Error; err != nil {
		log.Printf("pathao: reading zone cache failed: %v", err)
	}
	return zones
}

// GetStores returns the mirrored merchant stores, same caching policy.
func (c *Client) GetStores(forceRefresh bool) []models.PathaoStore {
	if !forceRefresh {
		var fresh []models.PathaoStore
		err := c.db.Where("last_updated > ?", staleCutoff()).Find(&fresh).Error
		if err == nil && len(fresh) > 0 {
			return fresh
		}
	}

	if err := c.fetchStores(); err != nil {
		log.Printf("pathao: fetching stores failed, serving cached data: %v", err)
	}

	stores := []models.PathaoStore{}
	if err := c.db.Find(&stores).Error; err != nil {
		log.Printf("pathao: reading store cache failed: %v", err)
	}
	return stores
}

// LocationNames resolves display names from the local mirror only. It never
// triggers a refresh; an id that is not mirrored yields an empty string.
func (c *Client) LocationNames(cityID, zoneID *int) (cityName, zoneName string) {
	if cityID != nil {
		var city models.PathaoCity
		if err := c.db.Where("city_id = ?", *cityID).First(&city).Error; err == nil {
			cityName = city.CityName
		}
	}
	if zoneID != nil {
		var zone models.PathaoZone
		if err := c.db.Where("zone_id = ?", *zoneID).First(&zone).Error; err == nil {
			zoneName = zone.ZoneName
		}
	}
	return cityName, zoneName
}

func staleCutoff() time.Time {
	return time.Now().UTC().Add(-cacheDuration)
}

func (c *Client) fetchCities() error {
	token, err := c.AccessToken()
	if err != nil {
		return err
	}
	var resp cityListResponse
	if err := c.getAuthJSON(cityListPath, token, &resp); err != nil {
		return err
	}

	now := time.Now().UTC()
	return c.db.Transaction(func(tx *gorm.DB) error {
		for _, city := range resp.Data.Data {
			row := models.PathaoCity{CityID: city.CityID, CityName: city.CityName, LastUpdated: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "city_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"city_name", "last_updated"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Client) fetchZones(cityID int) error {
	token, err := c.AccessToken()
	if err != nil {
		return err
	}
	var resp zoneListResponse
	if err := c.getAuthJSON(fmt.Sprintf(zoneListPath, cityID), token, &resp); err != nil {
		return err
	}

	now := time.Now().UTC()
	return c.db.Transaction(func(tx *gorm.DB) error {
		for _, zone := range resp.Data.Data {
			row := models.PathaoZone{ZoneID: zone.ZoneID, ZoneName: zone.ZoneName, CityID: cityID, LastUpdated: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "zone_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"zone_name", "city_id", "last_updated"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Client) fetchStores() error {
	token, err := c.AccessToken()
	if err != nil {
		return err
	}
	var resp storeListResponse
	if err := c.getAuthJSON(storeListPath, token, &resp); err != nil {
		return err
	}

	now := time.Now().UTC()
	return c.db.Transaction(func(tx *gorm.DB) error {
		for _, store := range resp.Data.Data {
			row := models.PathaoStore{
				StoreID:      store.StoreID,
				StoreName:    store.StoreName,
				StoreAddress: store.StoreAddress,
				LastUpdated:  now,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "store_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"store_name", "store_address", "last_updated"}),
			}).Create(&row).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
