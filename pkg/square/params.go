package square

import (
	"strconv"
	"strings"

	sq "github.com/square/square-go-sdk"
	sqcheckout "github.com/square/square-go-sdk/checkout"
)

// PaymentLinkLineItem is one cart entry rendered on the hosted checkout page.
type PaymentLinkLineItem struct {
	Name        string
	Quantity    int
	AmountCents int64
}

// PaymentLinkCreateParams contains the fields required to build a hosted checkout page.
type PaymentLinkCreateParams struct {
	LocationID       string
	LineItems        []PaymentLinkLineItem
	TaxCents         int64
	ShippingFeeCents int64
	Currency         string
	RedirectURL      string
	ReferenceID      string
	PaymentNote      string
	IdempotencyKey   string
}

func (p PaymentLinkCreateParams) toSquareRequest(idempotencyKey string) *sqcheckout.CreatePaymentLinkRequest {
	order := &sq.Order{
		LocationID: p.LocationID,
	}
	if trimmed := strings.TrimSpace(p.ReferenceID); trimmed != "" {
		order.ReferenceID = ptrString(trimmed)
	}
	for _, item := range p.LineItems {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		order.LineItems = append(order.LineItems, &sq.OrderLineItem{
			Name:           ptrString(item.Name),
			Quantity:       strconv.Itoa(qty),
			BasePriceMoney: moneyPtr(item.AmountCents, p.Currency),
		})
	}
	// A flat tax amount renders as its own line so the hosted page total
	// matches the order total we persist.
	if p.TaxCents > 0 {
		order.LineItems = append(order.LineItems, &sq.OrderLineItem{
			Name:           ptrString("Tax"),
			Quantity:       "1",
			BasePriceMoney: moneyPtr(p.TaxCents, p.Currency),
		})
	}

	req := &sqcheckout.CreatePaymentLinkRequest{
		IdempotencyKey: ptrString(idempotencyKey),
		Order:          order,
	}
	if trimmed := strings.TrimSpace(p.PaymentNote); trimmed != "" {
		req.PaymentNote = ptrString(trimmed)
	}

	opts := &sq.CheckoutOptions{}
	hasOpts := false
	if trimmed := strings.TrimSpace(p.RedirectURL); trimmed != "" {
		opts.RedirectURL = ptrString(trimmed)
		hasOpts = true
	}
	if p.ShippingFeeCents > 0 {
		opts.ShippingFee = &sq.ShippingFee{
			Name:   ptrString("Shipping"),
			Charge: moneyPtr(p.ShippingFeeCents, p.Currency),
		}
		hasOpts = true
	}
	if hasOpts {
		req.CheckoutOptions = opts
	}
	return req
}

func ptrString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func int64Ptr(value int64) *int64 {
	return &value
}

func currencyPtr(code string) *sq.Currency {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		trimmed = "USD"
	}
	c := sq.Currency(trimmed)
	return &c
}

func moneyPtr(amount int64, currency string) *sq.Money {
	if amount == 0 {
		return nil
	}
	return &sq.Money{
		Amount:   int64Ptr(amount),
		Currency: currencyPtr(currency),
	}
}
