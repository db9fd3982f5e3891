package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/pkg/db/models"
)

// ListFilters narrows the catalog listing query.
type ListFilters struct {
	Keyword    string
	Category   string
	PriceGTE   *decimal.Decimal
	PriceLTE   *decimal.Decimal
	RatingsGTE *decimal.Decimal
}

// Repository exposes product-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a product together with its image rows.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// FindByID loads a product with its images and reviews.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Reviews").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns one page of products matching the filters plus the filtered
// total count.
func (r *Repository) List(ctx context.Context, filters ListFilters, limit, offset int) ([]models.Product, int64, error) {
	query := r.applyFilters(r.db.WithContext(ctx).Model(&models.Product{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListByCreator returns every product owned by the given user.
func (r *Repository) ListByCreator(ctx context.Context, userID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update overwrites the listing's editable columns.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"category":    product.Category,
			"seller":      product.Seller,
			"stock":       product.Stock,
		}).Error
}

// ReplaceImages swaps the product's image rows for the provided set.
func (r *Repository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductImage{}, "product_id = ?", productID).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
}

// Delete removes the product; image and review rows cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductImage{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Review{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
}

// ListReviews returns every review of a product, newest first.
func (r *Repository) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertReview writes the user's review of a product, overwriting any
// previous one, and recomputes the product's rating aggregates in the same
// transaction.
func (r *Repository) UpsertReview(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		err := tx.Where("product_id = ? AND user_id = ?", review.ProductID, review.UserID).
			First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]any{
				"name":    review.Name,
				"rating":  review.Rating,
				"comment": review.Comment,
			}
			if err := tx.Model(&models.Review{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return err
			}
			review.ID = existing.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(review).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return recomputeRatings(tx, review.ProductID)
	})
}

// DeleteReview removes one review and recomputes the product's rating
// aggregates in the same transaction.
func (r *Repository) DeleteReview(ctx context.Context, productID, reviewID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Review{}, "id = ? AND product_id = ?", reviewID, productID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return recomputeRatings(tx, productID)
	})
}

// recomputeRatings rewrites num_of_reviews and the mean rating from the
// review rows. An empty review set resets the mean to zero.
func recomputeRatings(tx *gorm.DB, productID uuid.UUID) error {
	var stats struct {
		Count int64
		Avg   *float64
	}
	err := tx.Model(&models.Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS avg").
		Where("product_id = ?", productID).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	mean := 0.0
	if stats.Avg != nil {
		mean = *stats.Avg
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"num_of_reviews": stats.Count,
			"ratings":        mean,
		}).Error
}

func (r *Repository) applyFilters(query *gorm.DB, filters ListFilters) *gorm.DB {
	if keyword := strings.TrimSpace(filters.Keyword); keyword != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.PriceGTE != nil {
		query = query.Where("price >= ?", *filters.PriceGTE)
	}
	if filters.PriceLTE != nil {
		query = query.Where("price <= ?", *filters.PriceLTE)
	}
	if filters.RatingsGTE != nil {
		query = query.Where("ratings >= ?", filters.RatingsGTE.InexactFloat64())
	}
	return query
}
