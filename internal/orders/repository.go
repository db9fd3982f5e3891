package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
)

// Repository exposes order-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts an order together with its line items.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order with its line items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns every order placed by the given user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns every order, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TransitionStatus moves the order to the given status. A transition into
// Delivered also decrements stock for every line item; all writes run in one
// transaction so a failed decrement leaves the order untouched.
func (r *Repository) TransitionStatus(ctx context.Context, order *models.Order, status enums.OrderStatus, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": status}
		if status == enums.OrderStatusDelivered {
			for _, item := range order.LineItems {
				err := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity)).Error
				if err != nil {
					return err
				}
			}
			updates["delivered_at"] = now
		}
		return tx.Model(&models.Order{}).
			Where("id = ?", order.ID).
			Updates(updates).Error
	})
}

// SumTotal returns the revenue sum across every order.
func (r *Repository) SumTotal(ctx context.Context) (decimal.Decimal, error) {
	var raw struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0) AS total").
		Scan(&raw).Error
	if err != nil {
		return decimal.Zero, err
	}
	return raw.Total, nil
}

// Delete removes the order and its line items. Stock is not reconciled.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.OrderLineItem{}, "order_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
