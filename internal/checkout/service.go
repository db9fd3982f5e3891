package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"

	"github.com/buynowhq/buynow-backend/pkg/config"
	"github.com/buynowhq/buynow-backend/pkg/db/models"
	pkgerrors "github.com/buynowhq/buynow-backend/pkg/errors"
	"github.com/buynowhq/buynow-backend/pkg/square"
)

// ItemRequest is one cart entry headed for the payment page.
type ItemRequest struct {
	Name     string          `json:"name" validate:"required"`
	Price    decimal.Decimal `json:"price" validate:"required"`
	Quantity int             `json:"quantity" validate:"required,gte=1"`
}

// Request carries the cart snapshot for a hosted checkout session.
type Request struct {
	Items         []ItemRequest   `json:"items" validate:"required,min=1,dive"`
	TaxPrice      decimal.Decimal `json:"tax_price"`
	ShippingPrice decimal.Decimal `json:"shipping_price"`
}

// SessionDTO points the client at the hosted payment page.
type SessionDTO struct {
	PaymentLinkID string `json:"payment_link_id"`
	URL           string `json:"url"`
	OrderID       string `json:"order_id,omitempty"`
}

// Service defines the behavior needed by the checkout controller.
type Service interface {
	CreateSession(ctx context.Context, user *models.User, req Request) (*SessionDTO, error)
}

type service struct {
	links       paymentLinkCreator
	redirectURL string
}

type paymentLinkCreator interface {
	CreatePaymentLink(ctx context.Context, params square.PaymentLinkCreateParams) (*sq.PaymentLink, error)
	LocationID() string
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Links        paymentLinkCreator
	SquareConfig config.SquareConfig
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Links == nil {
		return nil, fmt.Errorf("payment link client is required")
	}
	return &service{
		links:       params.Links,
		redirectURL: params.SquareConfig.RedirectURL,
	}, nil
}

// CreateSession builds one payment-link line item per cart entry plus
// synthesized tax and shipping lines, and returns the hosted page URL.
func (s *service) CreateSession(ctx context.Context, user *models.User, req Request) (*SessionDTO, error) {
	lineItems := make([]square.PaymentLinkLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		if !item.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must be positive")
		}
		lineItems = append(lineItems, square.PaymentLinkLineItem{
			Name:        item.Name,
			Quantity:    item.Quantity,
			AmountCents: toCents(item.Price),
		})
	}

	params := square.PaymentLinkCreateParams{
		LocationID:       s.links.LocationID(),
		LineItems:        lineItems,
		TaxCents:         toCents(req.TaxPrice),
		ShippingFeeCents: toCents(req.ShippingPrice),
		RedirectURL:      s.redirectURL,
		ReferenceID:      user.ID.String(),
		PaymentNote:      "buynow order for " + user.Email,
	}

	link, err := s.links.CreatePaymentLink(ctx, params)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "payment link missing from response")
	}

	session := &SessionDTO{}
	if link.ID != nil {
		session.PaymentLinkID = *link.ID
	}
	if link.URL != nil {
		session.URL = *link.URL
	}
	if link.OrderID != nil {
		session.OrderID = *link.OrderID
	}
	return session, nil
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
