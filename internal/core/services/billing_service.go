package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/skyrates/skyrates_backend/internal/apperrors"
	"github.com/skyrates/skyrates_backend/internal/core/domain"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
	"github.com/skyrates/skyrates_backend/internal/dto"
	"github.com/skyrates/skyrates_backend/internal/platform/config"
	stripe "github.com/stripe/stripe-go/v78"
	stripeclient "github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// stripeBillingService implements BillingSvcFacade against the Stripe API.
// Subscription state lives in Stripe; the local user record only mirrors the
// premium/free flag, updated through webhooks.
type stripeBillingService struct {
	client        *stripeclient.API
	userService   portssvc.UserSvcFacade
	webhookSecret string
	successURL    string
	cancelURL     string
}

// NewBillingService creates a Stripe-backed billing service.
func NewBillingService(cfg *config.Config, userService portssvc.UserSvcFacade) portssvc.BillingSvcFacade {
	sc := &stripeclient.API{}
	sc.Init(cfg.StripeSecretKey, nil)
	return &stripeBillingService{
		client:        sc,
		userService:   userService,
		webhookSecret: cfg.StripeWebhookSecret,
		successURL:    cfg.StripeSuccessURL,
		cancelURL:     cfg.StripeCancelURL,
	}
}

// ListPrices returns the active recurring prices available for upgrade.
func (s *stripeBillingService) ListPrices(ctx context.Context) ([]dto.PriceResponse, error) {
	params := &stripe.PriceListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.AddExpand("data.product")

	prices := []dto.PriceResponse{}
	iter := s.client.Prices.List(params)
	for iter.Next() {
		p := iter.Price()
		if p.Recurring == nil {
			continue
		}
		resp := dto.PriceResponse{
			PriceID:    p.ID,
			UnitAmount: decimal.NewFromInt(p.UnitAmount).Div(decimal.NewFromInt(100)),
			Currency:   string(p.Currency),
			Interval:   string(p.Recurring.Interval),
		}
		if p.Product != nil {
			resp.ProductName = p.Product.Name
		}
		prices = append(prices, resp)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to list prices: %v", apperrors.ErrUpstream, err)
	}
	return prices, nil
}

// CreateCheckoutSession starts a Stripe Checkout session for the user and
// returns the redirect URL. A Stripe customer is created on first use.
func (s *stripeBillingService) CreateCheckoutSession(ctx context.Context, user *domain.User, priceID string) (string, error) {
	customerID := user.StripeCustomerID
	if customerID == "" {
		custParams := &stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.Name),
		}
		custParams.Context = ctx
		cust, err := s.client.Customers.New(custParams)
		if err != nil {
			return "", fmt.Errorf("%w: failed to create customer: %v", apperrors.ErrUpstream, err)
		}
		customerID = cust.ID
		if err := s.userService.SetStripeCustomerID(ctx, user.UserID, customerID); err != nil {
			return "", err
		}
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(customerID),
		ClientReferenceID: stripe.String(user.UserID),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(s.cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	sess, err := s.client.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create checkout session: %v", apperrors.ErrUpstream, err)
	}
	return sess.URL, nil
}

// HandleWebhookEvent verifies and applies a Stripe webhook delivery. Event
// types we do not consume are acknowledged and ignored.
func (s *stripeBillingService) HandleWebhookEvent(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return fmt.Errorf("%w: invalid webhook signature", apperrors.ErrUnauthorized)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("%w: malformed checkout session payload", apperrors.ErrValidation)
		}
		if sess.Customer == nil {
			return fmt.Errorf("%w: checkout session has no customer", apperrors.ErrValidation)
		}
		return s.userService.SetSubscriptionStatusByCustomerID(ctx, sess.Customer.ID, domain.SubscriptionPremium)

	case stripe.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("%w: malformed subscription payload", apperrors.ErrValidation)
		}
		if sub.Customer == nil {
			return fmt.Errorf("%w: subscription has no customer", apperrors.ErrValidation)
		}
		return s.userService.SetSubscriptionStatusByCustomerID(ctx, sub.Customer.ID, domain.SubscriptionFree)
	}

	return nil
}
