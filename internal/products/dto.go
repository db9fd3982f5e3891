package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
)

// ProductImageDTO is the transport shape of one stored product image.
type ProductImageDTO struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

// ReviewDTO is the transport shape of one product review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ProductDTO is the transport shape of a catalog listing.
type ProductDTO struct {
	ID           uuid.UUID             `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	Price        decimal.Decimal       `json:"price"`
	Category     enums.ProductCategory `json:"category"`
	Seller       string                `json:"seller"`
	Stock        int                   `json:"stock"`
	Ratings      float64               `json:"ratings"`
	NumOfReviews int                   `json:"num_of_reviews"`
	Images       []ProductImageDTO     `json:"images"`
	Reviews      []ReviewDTO           `json:"reviews,omitempty"`
	CreatedBy    uuid.UUID             `json:"created_by"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// CreateProductRequest carries a new listing. Images are base64 data URLs.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=120"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Seller      string          `json:"seller" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Images      []string        `json:"images" validate:"omitempty,max=6"`
}

// UpdateProductRequest replaces a listing's fields. When Images is present
// the stored image set is replaced wholesale.
type UpdateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=2,max=120"`
	Description string          `json:"description" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Seller      string          `json:"seller" validate:"required"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Images      []string        `json:"images" validate:"omitempty,max=6"`
}

// ReviewRequest upserts the caller's review of a product.
type ReviewRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"required"`
}

// ListQuery carries the catalog search filters.
type ListQuery struct {
	Keyword    string
	Category   string
	PriceGTE   *decimal.Decimal
	PriceLTE   *decimal.Decimal
	RatingsGTE *decimal.Decimal
	Page       int
}

// ListResult is one page of catalog results with the filtered total.
type ListResult struct {
	Products   []ProductDTO `json:"products"`
	Count      int64        `json:"count"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
}

func imageFromModel(img models.ProductImage) ProductImageDTO {
	return ProductImageDTO{PublicID: img.PublicID, URL: img.URL}
}

func reviewFromModel(r models.Review) ReviewDTO {
	return ReviewDTO{
		ID:        r.ID,
		UserID:    r.UserID,
		Name:      r.Name,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	images := make([]ProductImageDTO, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageFromModel(img))
	}
	reviews := make([]ReviewDTO, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		reviews = append(reviews, reviewFromModel(r))
	}

	return &ProductDTO{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Category:     p.Category,
		Seller:       p.Seller,
		Stock:        p.Stock,
		Ratings:      p.Ratings,
		NumOfReviews: p.NumOfReviews,
		Images:       images,
		Reviews:      reviews,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
