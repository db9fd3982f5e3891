package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
)

// ShippingInfoDTO carries the delivery destination.
type ShippingInfoDTO struct {
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Country string `json:"country" validate:"required"`
	PinCode string `json:"pin_code" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
}

// PaymentInfoDTO echoes the payment provider's reference.
type PaymentInfoDTO struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// OrderItemRequest snapshots one cart entry at purchase time.
type OrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gte=1"`
	ImageURL  string          `json:"image_url"`
}

// CreateOrderRequest carries a new order with its caller-computed price
// breakdown.
type CreateOrderRequest struct {
	ShippingInfo  ShippingInfoDTO    `json:"shipping_info" validate:"required"`
	OrderItems    []OrderItemRequest `json:"order_items" validate:"required,min=1,dive"`
	PaymentInfo   PaymentInfoDTO     `json:"payment_info" validate:"required"`
	ItemsPrice    decimal.Decimal    `json:"items_price" validate:"required"`
	TaxPrice      decimal.Decimal    `json:"tax_price"`
	ShippingPrice decimal.Decimal    `json:"shipping_price"`
	TotalPrice    decimal.Decimal    `json:"total_price" validate:"required"`
}

// UpdateStatusRequest moves an order through fulfillment.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderItemDTO is the transport shape of one ordered line item.
type OrderItemDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url,omitempty"`
}

// OrderDTO is the transport shape of a placed order.
type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	ShippingInfo  ShippingInfoDTO   `json:"shipping_info"`
	OrderItems    []OrderItemDTO    `json:"order_items"`
	PaymentInfo   PaymentInfoDTO    `json:"payment_info"`
	PaidAt        time.Time         `json:"paid_at"`
	ItemsPrice    decimal.Decimal   `json:"items_price"`
	TaxPrice      decimal.Decimal   `json:"tax_price"`
	ShippingPrice decimal.Decimal   `json:"shipping_price"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
	Status        enums.OrderStatus `json:"status"`
	DeliveredAt   *time.Time        `json:"delivered_at,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// AdminListResult is the admin order listing with the running revenue sum.
type AdminListResult struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	Orders      []OrderDTO      `json:"orders"`
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	items := make([]OrderItemDTO, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		items = append(items, OrderItemDTO{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}

	return &OrderDTO{
		ID:     o.ID,
		UserID: o.UserID,
		ShippingInfo: ShippingInfoDTO{
			Address: o.ShippingAddress,
			City:    o.ShippingCity,
			State:   o.ShippingState,
			Country: o.ShippingCountry,
			PinCode: o.ShippingPinCode,
			Phone:   o.ShippingPhone,
		},
		OrderItems: items,
		PaymentInfo: PaymentInfoDTO{
			ID:     o.PaymentID,
			Status: o.PaymentStatus,
		},
		PaidAt:        o.PaidAt,
		ItemsPrice:    o.ItemsPrice,
		TaxPrice:      o.TaxPrice,
		ShippingPrice: o.ShippingPrice,
		TotalPrice:    o.TotalPrice,
		Status:        o.Status,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
	}
}
