package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderRef   string   `gorm:"size:64;uniqueIndex;not null" json:"order_ref"`
	UserID     uint     `gorm:"not null;index" json:"user_id"`
	CustomerID uint     `gorm:"not null" json:"customer_id"`
	Customer   Customer `gorm:"foreignKey:CustomerID" json:"customer"`

	// Courier location, resolved from the local mirror at creation time and
	// stored denormalized. Never re-looked-up afterwards.
	CityID            *int   `json:"city_id"`
	CityName          string `gorm:"size:100" json:"city_name"`
	ZoneID            *int   `json:"zone_id"`
	ZoneName          string `gorm:"size:100" json:"zone_name"`
	ShippingRequested bool   `gorm:"not null;default:false" json:"shipping_requested"`

	DeliveryCharge decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"delivery_charge"`
	Discount       decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0" json:"discount"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_amount"`
	Status         OrderStatus     `gorm:"type:VARCHAR(20);not null;default:'pending'" json:"status"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ItemCount is the total quantity across all line items.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums quantity x unit price over all line items.
func (o *Order) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Subtotal())
	}
	return subtotal
}

// FinalTotal truncates subtotal, delivery charge and discount to whole
// currency units before combining. The configured currency shows no
// fractional subunits.
func (o *Order) FinalTotal() int64 {
	return o.Subtotal().IntPart() + o.DeliveryCharge.IntPart() - o.Discount.IntPart()
}

// DeliveryLocation is "<zone>, <city>" from the denormalized names.
func (o *Order) DeliveryLocation() string {
	switch {
	case o.ZoneName != "" && o.CityName != "":
		return o.ZoneName + ", " + o.CityName
	case o.ZoneName != "":
		return o.ZoneName
	case o.CityName != "":
		return o.CityName
	default:
		return "Location not specified"
	}
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	// UnitPrice is the product price at order time and never changes after.
	UnitPrice    decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"unit_price"`
	TrackingCode string          `gorm:"size:12" json:"tracking_code"`
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
