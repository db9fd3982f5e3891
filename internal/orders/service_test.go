package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*models.Order

	transitions int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderRepo) Create(_ context.Context, order *models.Order) error {
	s.orders[order.ID] = order
	return nil
}

func (s *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) ListAll(context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *stubOrderRepo) TransitionStatus(_ context.Context, order *models.Order, status enums.OrderStatus, now time.Time) error {
	s.transitions++
	stored := s.orders[order.ID]
	stored.Status = status
	if status == enums.OrderStatusDelivered {
		stored.DeliveredAt = &now
	}
	return nil
}

func (s *stubOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.orders[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.orders, id)
	return nil
}

func validCreateOrderRequest() CreateOrderRequest {
	return CreateOrderRequest{
		ShippingInfo: ShippingInfoDTO{
			Address: "221B Baker Street", City: "London", State: "London",
			Country: "UK", PinCode: "NW1 6XE", Phone: "+441234567890",
		},
		OrderItems: []OrderItemRequest{
			{ProductID: uuid.NewString(), Name: "Widget", Price: decimal.RequireFromString("19.99"), Quantity: 3},
		},
		PaymentInfo:   PaymentInfoDTO{ID: "pay_123", Status: "succeeded"},
		ItemsPrice:    decimal.RequireFromString("59.97"),
		TaxPrice:      decimal.RequireFromString("10.79"),
		ShippingPrice: decimal.Zero,
		TotalPrice:    decimal.RequireFromString("70.76"),
	}
}

func newOrderTestService(t *testing.T) (Service, *stubOrderRepo, time.Time) {
	t.Helper()

	repo := newStubOrderRepo()
	fixed := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	svc, err := NewService(ServiceParams{Repo: repo, Now: func() time.Time { return fixed }})
	require.NoError(t, err)
	return svc, repo, fixed
}

func TestCreateStampsPaidAtAndStatus(t *testing.T) {
	svc, _, fixed := newOrderTestService(t)

	dto, err := svc.Create(context.Background(), uuid.New(), validCreateOrderRequest())
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, dto.Status)
	assert.True(t, dto.PaidAt.Equal(fixed))
	require.Len(t, dto.OrderItems, 1)
	assert.Equal(t, 3, dto.OrderItems[0].Quantity)
}

func TestCreateRejectsMalformedProductID(t *testing.T) {
	svc, _, _ := newOrderTestService(t)

	req := validCreateOrderRequest()
	req.OrderItems[0].ProductID = "not-a-uuid"
	_, err := svc.Create(context.Background(), uuid.New(), req)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _, _ := newOrderTestService(t)
	ownerID := uuid.New()

	created, err := svc.Create(context.Background(), ownerID, validCreateOrderRequest())
	require.NoError(t, err)

	owner := &models.User{ID: ownerID, Role: enums.UserRoleUser}
	dto, err := svc.Get(context.Background(), owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, dto.ID)

	stranger := &models.User{ID: uuid.New(), Role: enums.UserRoleUser}
	_, err = svc.Get(context.Background(), stranger, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeForbidden, typed.Code())

	admin := &models.User{ID: uuid.New(), Role: enums.UserRoleAdmin}
	_, err = svc.Get(context.Background(), admin, created.ID)
	require.NoError(t, err)
}

func TestAdminListSumsTotals(t *testing.T) {
	svc, _, _ := newOrderTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), validCreateOrderRequest())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), uuid.New(), validCreateOrderRequest())
	require.NoError(t, err)

	result, err := svc.AdminList(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Orders, 2)
	assert.True(t, result.TotalAmount.Equal(decimal.RequireFromString("141.52")))
}

func TestUpdateStatusRejectsDeliveredOrders(t *testing.T) {
	svc, repo, _ := newOrderTestService(t)

	created, err := svc.Create(context.Background(), uuid.New(), validCreateOrderRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, UpdateStatusRequest{Status: "Delivered"})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.transitions)

	_, err = svc.UpdateStatus(context.Background(), created.ID, UpdateStatusRequest{Status: "Shipped"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
	assert.Equal(t, "order already delivered", typed.Message())
	assert.Equal(t, 1, repo.transitions)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newOrderTestService(t)

	created, err := svc.Create(context.Background(), uuid.New(), validCreateOrderRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, UpdateStatusRequest{Status: "Teleported"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDeleteUnknownOrderNotFound(t *testing.T) {
	svc, _, _ := newOrderTestService(t)

	err := svc.Delete(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
