package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// CheckoutIntent is what the caller wants to sell: one trip slot, n spots,
// total amount in minor units.
type CheckoutIntent struct {
	TripID        string
	TripTitle     string
	TripDate      time.Time
	Spots         int
	Amount        int64
	Currency      string
	CustomerEmail string
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// PaymentNotice is the gateway-neutral form of an asynchronous payment event.
// Completed is false for event types the booking flow does not care about.
type PaymentNotice struct {
	EventID   string
	Type      string
	Completed bool

	TripID     string
	TripDate   time.Time
	Spots      int
	PayerEmail string
	PayerName  string
	AmountPaid int64
}

// PaymentGateway is the external payment collaborator. ParseNotice performs
// the signature verification; a verification error is a hard reject before
// any reconciliation runs.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, intent CheckoutIntent) (*CheckoutSession, error)
	ParseNotice(payload []byte, signature string) (*PaymentNotice, error)
}

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	successURL    string
	cancelURL     string
}

func NewStripeGateway(api *client.API, webhookSecret, successURL, cancelURL string) *StripeGateway {
	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, intent CheckoutIntent) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.successURL),
		CancelURL:         stripe.String(g.cancelURL),
		CustomerEmail:     stripe.String(intent.CustomerEmail),
		ClientReferenceID: stripe.String(intent.TripID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(intent.Currency),
				UnitAmount: stripe.Int64(intent.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(intent.TripTitle),
				},
			},
		}},
	}
	params.Context = ctx
	params.AddMetadata("trip_id", intent.TripID)
	params.AddMetadata("trip_date", intent.TripDate.Format("2006-01-02"))
	params.AddMetadata("spots", fmt.Sprintf("%d", intent.Spots))

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %v", err)
	}
	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (g *StripeGateway) ParseNotice(payload []byte, signature string) (*PaymentNotice, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %v", err)
	}

	notice := &PaymentNotice{
		EventID: event.ID,
		Type:    string(event.Type),
	}
	if event.Type != "checkout.session.completed" {
		return notice, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %v", err)
	}

	notice.Completed = true
	notice.TripID = session.Metadata["trip_id"]
	notice.AmountPaid = session.AmountTotal
	if date, err := time.Parse("2006-01-02", session.Metadata["trip_date"]); err == nil {
		notice.TripDate = date
	}
	if spots, err := strconv.Atoi(session.Metadata["spots"]); err == nil {
		notice.Spots = spots
	}

	notice.PayerEmail = session.CustomerEmail
	if session.CustomerDetails != nil {
		if session.CustomerDetails.Email != "" {
			notice.PayerEmail = session.CustomerDetails.Email
		}
		notice.PayerName = session.CustomerDetails.Name
	}

	return notice, nil
}
