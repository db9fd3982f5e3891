package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buynowhq/buynow-backend/pkg/enums"
)

// Product represents a catalog listing.
type Product struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string                `gorm:"column:name;not null"`
	Description  string                `gorm:"column:description;not null"`
	Price        decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Category     enums.ProductCategory `gorm:"column:category;not null"`
	Seller       string                `gorm:"column:seller;not null"`
	Stock        int                   `gorm:"column:stock;not null;default:1"`
	Ratings      float64               `gorm:"column:ratings;type:numeric(3,2);not null;default:0"`
	NumOfReviews int                   `gorm:"column:num_of_reviews;not null;default:0"`
	CreatedBy    uuid.UUID             `gorm:"column:created_by;type:uuid;not null"`
	Images       []ProductImage        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews      []Review              `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
