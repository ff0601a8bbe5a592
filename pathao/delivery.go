package pathao

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mahirlabs/order-management-api/models"
)

// Standard Pathao parameters for a normal parcel delivery.
const (
	deliveryTypeNormal = 48
	itemTypeParcel     = 2
	defaultItemWeight  = "0.5"
)

type bookingRequest struct {
	StoreID          int    `json:"store_id"`
	MerchantOrderID  string `json:"merchant_order_id"`
	RecipientName    string `json:"recipient_name"`
	RecipientPhone   string `json:"recipient_phone"`
	RecipientAddress string `json:"recipient_address"`
	RecipientCity    int    `json:"recipient_city"`
	RecipientZone    int    `json:"recipient_zone"`
	DeliveryType     int    `json:"delivery_type"`
	ItemType         int    `json:"item_type"`
	ItemQuantity     int    `json:"item_quantity"`
	ItemWeight       string `json:"item_weight"`
	ItemDescription  string `json:"item_description"`
	AmountToCollect  int64  `json:"amount_to_collect"`
}

type bookingResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		ConsignmentID string          `json:"consignment_id"`
		OrderStatus   string          `json:"order_status"`
		DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	} `json:"data"`
}

// Booking is the courier's acknowledgment for one consignment.
type Booking struct {
	ConsignmentID string
	OrderStatus   string
	DeliveryFee   decimal.Decimal
}

// BookDelivery submits one order to the courier from the given store. The
// order must have its Customer and Items loaded. The caller owns all local
// persistence; this only performs the remote call.
func (c *Client) BookDelivery(order *models.Order, storeID int) (*Booking, error) {
	token, err := c.AccessToken()
	if err != nil {
		return nil, err
	}

	payload := bookingRequest{
		StoreID:          storeID,
		MerchantOrderID:  order.OrderRef,
		RecipientName:    order.Customer.Name,
		RecipientPhone:   order.Customer.Phone,
		RecipientAddress: order.Customer.Address,
		RecipientCity:    intOrZero(order.CityID),
		RecipientZone:    intOrZero(order.ZoneID),
		DeliveryType:     deliveryTypeNormal,
		ItemType:         itemTypeParcel,
		ItemQuantity:     order.ItemCount(),
		ItemWeight:       defaultItemWeight,
		ItemDescription:  fmt.Sprintf("Order %s (%d items)", order.OrderRef, order.ItemCount()),
		AmountToCollect:  order.TotalAmount.IntPart(),
	}

	var resp bookingResponse
	if err := c.postAuthJSON(createOrderPath, token, payload, &resp); err != nil {
		return nil, err
	}
	if resp.Code != 200 {
		return nil, fmt.Errorf("pathao rejected the booking: %s", resp.Message)
	}
	if resp.Data.ConsignmentID == "" {
		return nil, errors.New("pathao returned an empty consignment id")
	}

	return &Booking{
		ConsignmentID: resp.Data.ConsignmentID,
		OrderStatus:   resp.Data.OrderStatus,
		DeliveryFee:   resp.Data.DeliveryFee,
	}, nil
}

// ParseAddress runs a free-form address through the courier's parser and
// returns the parsed fields as-is.
func (c *Client) ParseAddress(address string) (map[string]any, error) {
	token, err := c.AccessToken()
	if err != nil {
		return nil, err
	}

	payload := map[string]string{"address": address}
	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := c.postAuthJSON(parseAddressPath, token, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
