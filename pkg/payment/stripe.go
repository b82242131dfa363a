package payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/webhook"
)

// ErrSessionNotFound is returned when Stripe has no checkout session with the
// requested id.
var ErrSessionNotFound = errors.New("checkout session not found")

// Outbound Stripe calls are bounded so a slow provider surfaces as an error
// instead of a hung request.
const requestTimeout = 15 * time.Second

type CheckoutLineItem struct {
	Name       string
	UnitAmount int64
	Currency   string
	Quantity   int64
}

type CheckoutParams struct {
	CustomerEmail string
	LineItems     []CheckoutLineItem
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	stripe.SetHTTPClient(&http.Client{Timeout: requestTimeout})
	return &StripeGateway{
		webhookSecret: webhookSecret,
	}
}

// CreateCheckoutSession creates a hosted checkout session from already-priced
// line items. Prices are inlined via price_data so no Stripe product catalog
// needs to exist up front.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*stripe.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(p.LineItems))
	for _, item := range p.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(item.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(item.Currency),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
	}
	params.Context = ctx
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	return session.New(params)
}

// GetCheckoutSession fetches the authoritative session state from Stripe.
func (g *StripeGateway) GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := session.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s, nil
}

// ConstructWebhookEvent verifies the Stripe-Signature header against the
// webhook secret and returns the decoded event. Verification failure means
// the payload must not be acted on.
func (g *StripeGateway) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
}
