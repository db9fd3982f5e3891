package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/buynowhq/buynow-backend/api/middleware"
	"github.com/buynowhq/buynow-backend/internal/orders"
	"github.com/buynowhq/buynow-backend/pkg/db/models"
	"github.com/buynowhq/buynow-backend/pkg/enums"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
)

type stubOrdersService struct {
	dto   *orders.OrderDTO
	list  []orders.OrderDTO
	admin *orders.AdminListResult
	err   error

	lastStatus string
	lastUserID uuid.UUID
}

func (s *stubOrdersService) Create(ctx context.Context, userID uuid.UUID, req orders.CreateOrderRequest) (*orders.OrderDTO, error) {
	s.lastUserID = userID
	return s.dto, s.err
}

func (s *stubOrdersService) Get(ctx context.Context, actor *models.User, id uuid.UUID) (*orders.OrderDTO, error) {
	return s.dto, s.err
}

func (s *stubOrdersService) ListMine(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error) {
	s.lastUserID = userID
	return s.list, s.err
}

func (s *stubOrdersService) AdminList(ctx context.Context) (*orders.AdminListResult, error) {
	return s.admin, s.err
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, id uuid.UUID, req orders.UpdateStatusRequest) (*orders.OrderDTO, error) {
	s.lastStatus = req.Status
	return s.dto, s.err
}

func (s *stubOrdersService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func orderRequestBody(productID uuid.UUID) string {
	return `{
		"shipping_info": {"address":"1 Main St","city":"Springfield","state":"IL","country":"USA","pin_code":"62704","phone":"5551234567"},
		"order_items": [{"product_id":"` + productID.String() + `","name":"Grinder","price":"59.99","quantity":1,"image_url":"https://img.example.com/g.png"}],
		"payment_info": {"id":"pay_123","status":"succeeded"},
		"items_price": "59.99",
		"tax_price": "4.05",
		"shipping_price": "7.50",
		"total_price": "71.54"
	}`
}

func TestCreateOrderStampsCaller(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &stubOrdersService{dto: &orders.OrderDTO{ID: uuid.New(), Status: enums.OrderStatusProcessing}}
	handler := CreateOrder(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/order/new", strings.NewReader(orderRequestBody(uuid.New())))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: userID, Role: enums.UserRoleUser}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastUserID != userID {
		t.Fatalf("expected caller id forwarded, got %s", svc.lastUserID)
	}
}

func TestCreateOrderRequiresLogin(t *testing.T) {
	t.Parallel()

	handler := CreateOrder(&stubOrdersService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/order/new", strings.NewReader(orderRequestBody(uuid.New())))
	req.Header.Set("Content-Type", "application/json")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestGetOrderForbiddenForStranger(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeForbidden, "you do not own this order")}
	handler := GetOrder(svc, nil)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/order/"+id.String(), nil)
	req = withRouteParam(req, "id", id.String())
	req = req.WithContext(middleware.WithUser(req.Context(), &models.User{ID: uuid.New(), Role: enums.UserRoleUser}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminListOrdersReturnsRevenue(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{admin: &orders.AdminListResult{
		TotalAmount: decimal.RequireFromString("141.52"),
		Orders:      []orders.OrderDTO{{ID: uuid.New()}, {ID: uuid.New()}},
	}}
	handler := AdminListOrders(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			TotalAmount decimal.Decimal   `json:"total_amount"`
			Orders      []json.RawMessage `json:"orders"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.TotalAmount.Equal(decimal.RequireFromString("141.52")) {
		t.Fatalf("unexpected total: %s", envelope.Data.TotalAmount)
	}
	if len(envelope.Data.Orders) != 2 {
		t.Fatalf("expected 2 orders got %d", len(envelope.Data.Orders))
	}
}

func TestAdminUpdateOrderDeliveredConflict(t *testing.T) {
	t.Parallel()

	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order already delivered")}
	handler := AdminUpdateOrder(svc, nil)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/order/"+id.String(), strings.NewReader(`{"status":"Shipped"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withRouteParam(req, "id", id.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastStatus != "Shipped" {
		t.Fatalf("expected status forwarded, got %q", svc.lastStatus)
	}
}

func TestAdminDeleteOrderSuccess(t *testing.T) {
	t.Parallel()

	handler := AdminDeleteOrder(&stubOrdersService{}, nil)

	id := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/order/"+id.String(), nil)
	req = withRouteParam(req, "id", id.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
