package services

import (
	"context"

	"github.com/skyrates/skyrates_backend/internal/core/domain"
	"github.com/skyrates/skyrates_backend/internal/dto"
)

// BillingSvcFacade exposes the Stripe-backed subscription operations.
type BillingSvcFacade interface {
	// ListPrices returns the active recurring prices available for upgrade.
	ListPrices(ctx context.Context) ([]dto.PriceResponse, error)

	// CreateCheckoutSession starts a Stripe Checkout session for the user and
	// returns the redirect URL.
	CreateCheckoutSession(ctx context.Context, user *domain.User, priceID string) (string, error)

	// HandleWebhookEvent verifies and applies a Stripe webhook delivery.
	HandleWebhookEvent(ctx context.Context, payload []byte, signature string) error
}
