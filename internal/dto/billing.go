package dto

import "github.com/shopspring/decimal"

// PriceResponse is one purchasable subscription price.
type PriceResponse struct {
	PriceID     string          `json:"priceID"`
	ProductName string          `json:"productName"`
	UnitAmount  decimal.Decimal `json:"unitAmount"`
	Currency    string          `json:"currency"`
	Interval    string          `json:"interval"`
}

// CheckoutRequest selects the price to start a checkout session for.
type CheckoutRequest struct {
	PriceID string `json:"priceID" binding:"required"`
}

// CheckoutResponse carries the Stripe-hosted checkout URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}
