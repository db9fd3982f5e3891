package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buynowhq/buynow-backend/pkg/config"
	"github.com/buynowhq/buynow-backend/pkg/db/models"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/square"
)

type fakeLinkCreator struct {
	lastParams square.PaymentLinkCreateParams
	err        error
}

func (f *fakeLinkCreator) CreatePaymentLink(_ context.Context, params square.PaymentLinkCreateParams) (*sq.PaymentLink, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastParams = params
	id := "plink_123"
	url := "https://square.link/u/abc"
	orderID := "order_456"
	return &sq.PaymentLink{ID: &id, URL: &url, OrderID: &orderID}, nil
}

func (f *fakeLinkCreator) LocationID() string { return "L123" }

func checkoutUser() *models.User {
	return &models.User{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}
}

func TestCreateSessionBuildsLineItems(t *testing.T) {
	creator := &fakeLinkCreator{}
	svc, err := NewService(ServiceParams{
		Links:        creator,
		SquareConfig: config.SquareConfig{RedirectURL: "https://buynow.shop/orders"},
	})
	require.NoError(t, err)

	user := checkoutUser()
	session, err := svc.CreateSession(context.Background(), user, Request{
		Items: []ItemRequest{
			{Name: "Widget", Price: decimal.RequireFromString("19.99"), Quantity: 2},
			{Name: "Gadget", Price: decimal.RequireFromString("5.00"), Quantity: 1},
		},
		TaxPrice:      decimal.RequireFromString("4.05"),
		ShippingPrice: decimal.RequireFromString("7.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "plink_123", session.PaymentLinkID)
	assert.Equal(t, "https://square.link/u/abc", session.URL)
	assert.Equal(t, "order_456", session.OrderID)

	params := creator.lastParams
	assert.Equal(t, "L123", params.LocationID)
	require.Len(t, params.LineItems, 2)
	assert.EqualValues(t, 1999, params.LineItems[0].AmountCents)
	assert.Equal(t, 2, params.LineItems[0].Quantity)
	assert.EqualValues(t, 405, params.TaxCents)
	assert.EqualValues(t, 750, params.ShippingFeeCents)
	assert.Equal(t, "https://buynow.shop/orders", params.RedirectURL)
	assert.Equal(t, user.ID.String(), params.ReferenceID)
}

func TestCreateSessionRejectsNonPositivePrice(t *testing.T) {
	svc, err := NewService(ServiceParams{Links: &fakeLinkCreator{}})
	require.NoError(t, err)

	_, err = svc.CreateSession(context.Background(), checkoutUser(), Request{
		Items: []ItemRequest{{Name: "Freebie", Price: decimal.Zero, Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateSessionPropagatesProviderError(t *testing.T) {
	providerErr := pkgerrors.New(pkgerrors.CodeDependency, "square unavailable")
	svc, err := NewService(ServiceParams{Links: &fakeLinkCreator{err: providerErr}})
	require.NoError(t, err)

	_, err = svc.CreateSession(context.Background(), checkoutUser(), Request{
		Items: []ItemRequest{{Name: "Widget", Price: decimal.New(1, 0), Quantity: 1}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
