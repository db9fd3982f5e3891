package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
)

// Service defines the behavior needed by the order controllers.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error)
	Get(ctx context.Context, actor *models.User, id uuid.UUID) (*OrderDTO, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	AdminList(ctx context.Context) (*AdminListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo orderRepository
	now  func() time.Time
}

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	TransitionStatus(ctx context.Context, order *models.Order, status enums.OrderStatus, now time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build an orders service.
type ServiceParams struct {
	Repo orderRepository
	Now  func() time.Time
}

// NewService constructs an orders service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error) {
	items := make([]models.OrderLineItem, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "resource not found, invalid id")
		}
		items = append(items, models.OrderLineItem{
			ID:        uuid.New(),
			ProductID: productID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}

	order := &models.Order{
		ID:              uuid.New(),
		UserID:          userID,
		ShippingAddress: req.ShippingInfo.Address,
		ShippingCity:    req.ShippingInfo.City,
		ShippingState:   req.ShippingInfo.State,
		ShippingCountry: req.ShippingInfo.Country,
		ShippingPinCode: req.ShippingInfo.PinCode,
		ShippingPhone:   req.ShippingInfo.Phone,
		PaymentID:       req.PaymentInfo.ID,
		PaymentStatus:   req.PaymentInfo.Status,
		PaidAt:          s.now(),
		ItemsPrice:      req.ItemsPrice,
		TaxPrice:        req.TaxPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
		Status:          enums.OrderStatusProcessing,
		LineItems:       items,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	return FromModel(order), nil
}

// Get returns one order. Non-admin callers may only read their own.
func (s *service) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "please login to access this resource")
	}
	if actor.Role != enums.UserRoleAdmin && order.UserID != actor.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this order")
	}
	return FromModel(order), nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	return fromModels(rows), nil
}

// AdminList returns every order plus the revenue sum across them.
func (s *service) AdminList(ctx context.Context) (*AdminListResult, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalPrice)
	}
	return &AdminListResult{TotalAmount: total, Orders: fromModels(rows)}, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*OrderDTO, error) {
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already delivered")
	}

	status, err := enums.ParseOrderStatus(req.Status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if err := s.repo.TransitionStatus(ctx, order, status, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "transition order status")
	}

	updated, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete order")
	}
	return nil
}

func (s *service) getOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	return order, nil
}

func fromModels(rows []models.Order) []OrderDTO {
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return dtos
}
