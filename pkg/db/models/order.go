package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buynowhq/buynow-backend/pkg/enums"
)

// Order captures a placed order with its shipping and payment snapshot.
type Order struct {
	ID     uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`

	ShippingAddress string `gorm:"column:shipping_address;not null"`
	ShippingCity    string `gorm:"column:shipping_city;not null"`
	ShippingState   string `gorm:"column:shipping_state;not null"`
	ShippingCountry string `gorm:"column:shipping_country;not null"`
	ShippingPinCode string `gorm:"column:shipping_pin_code;not null"`
	ShippingPhone   string `gorm:"column:shipping_phone;not null"`

	PaymentID     string    `gorm:"column:payment_id;not null"`
	PaymentStatus string    `gorm:"column:payment_status;not null"`
	PaidAt        time.Time `gorm:"column:paid_at;not null"`

	ItemsPrice    decimal.Decimal `gorm:"column:items_price;type:numeric(10,2);not null"`
	TaxPrice      decimal.Decimal `gorm:"column:tax_price;type:numeric(10,2);not null"`
	ShippingPrice decimal.Decimal `gorm:"column:shipping_price;type:numeric(10,2);not null"`
	TotalPrice    decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`

	Status      enums.OrderStatus `gorm:"column:status;not null;default:'Processing'"`
	DeliveredAt *time.Time        `gorm:"column:delivered_at"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
