package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PathaoCity mirrors one courier-owned city record. Rows are written only
// by the location mirror; LastUpdated drives cache staleness.
type PathaoCity struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	CityID      int       `gorm:"uniqueIndex;not null" json:"id"`
	CityName    string    `gorm:"size:100;not null" json:"name"`
	LastUpdated time.Time `gorm:"not null" json:"-"`
}

type PathaoZone struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	ZoneID      int       `gorm:"uniqueIndex;not null" json:"id"`
	ZoneName    string    `gorm:"size:100;not null" json:"name"`
	CityID      int       `gorm:"not null;index" json:"city_id"`
	LastUpdated time.Time `gorm:"not null" json:"-"`
}

type PathaoStore struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	StoreID      int       `gorm:"uniqueIndex;not null" json:"id"`
	StoreName    string    `gorm:"size:100;not null" json:"name"`
	StoreAddress string    `gorm:"type:text" json:"address"`
	LastUpdated  time.Time `gorm:"not null" json:"-"`
}

// PathaoToken holds the current credential pair for one provider. Keyed by
// provider so a second courier can be added without a schema change.
type PathaoToken struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Provider     string    `gorm:"size:32;uniqueIndex;not null" json:"provider"`
	AccessToken  string    `gorm:"type:text;not null" json:"-"`
	RefreshToken string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t *PathaoToken) Expired() bool {
	return !time.Now().UTC().Before(t.ExpiresAt)
}

// PathaoDelivery records the courier acknowledgment for one booked order.
type PathaoDelivery struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ConsignmentID string          `gorm:"size:50;uniqueIndex;not null" json:"consignment_id"`
	OrderID       uint            `gorm:"not null;index" json:"order_id"`
	OrderStatus   string          `gorm:"size:50;not null" json:"order_status"`
	DeliveryFee   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"delivery_fee"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (d *PathaoDelivery) Delivered() bool {
	status := strings.ToLower(d.OrderStatus)
	return status == "delivered" || status == "completed"
}

func (d *PathaoDelivery) InTransit() bool {
	switch strings.ReplaceAll(strings.ToLower(d.OrderStatus), " ", "_") {
	case "pickup_requested", "picked_up", "in_transit", "out_for_delivery":
		return true
	}
	return false
}
