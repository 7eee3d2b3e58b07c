package services

import (
	"context"
	"fmt"
	"time"

	"github.com/skyrates/skyrates_backend/internal/apperrors"
	"github.com/skyrates/skyrates_backend/internal/core/domain"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
	"github.com/skyrates/skyrates_backend/internal/core/ports/sources"
	"github.com/skyrates/skyrates_backend/internal/dto"
)

// dateParamLayout is the wire format of the optional date query parameter.
const dateParamLayout = "2006-01-02"

// RatesService orchestrates the exchange-rate core: it fetches raw quotes
// from the rate source, selects the supported subset and runs conversions.
// It holds no state between calls; every request re-fetches.
type RatesService struct {
	source    sources.RateSource
	base      string
	allowlist []string
	now       func() time.Time
}

// RatesServiceOption customizes a RatesService.
type RatesServiceOption func(*RatesService)

// WithClock overrides the time source, used by tests for deterministic dates.
func WithClock(now func() time.Time) RatesServiceOption {
	return func(s *RatesService) {
		s.now = now
	}
}

// NewRatesService creates a new RatesService. The allowlist doubles as the
// display priority order of the returned rate sets.
func NewRatesService(source sources.RateSource, base string, allowlist []string, opts ...RatesServiceOption) *RatesService {
	s := &RatesService{
		source:    source,
		base:      base,
		allowlist: allowlist,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.RatesSvcFacade = (*RatesService)(nil)

// parseDateParam turns the raw query value into a date filter. Malformed input
// is treated as "no filter" rather than an error so that a bad date never
// breaks the whole rates call.
func parseDateParam(dateParam string) *time.Time {
	if dateParam == "" {
		return nil
	}
	d, err := time.Parse(dateParamLayout, dateParam)
	if err != nil {
		return nil
	}
	return &d
}

// GetRates fetches the quoted-rate table for the given date (or latest) and
// narrows it to the configured allowlist in priority order.
func (s *RatesService) GetRates(ctx context.Context, dateParam string) (*domain.RateSet, error) {
	requested := parseDateParam(dateParam)

	raw, err := s.source.FetchRates(ctx, requested)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates in service: %w", err)
	}

	rateSet := domain.SelectRateSet(raw, s.base, s.allowlist, requested, s.now())
	return &rateSet, nil
}

// Convert fetches the rate set for the requested date and converts the amount.
// A missing quote yields a response with a nil Result; only upstream or input
// failures produce an error.
func (s *RatesService) Convert(ctx context.Context, req dto.ConvertRatesRequest) (*dto.ConvertRatesResponse, error) {
	if req.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required", apperrors.ErrValidation)
	}
	amount := *req.Amount
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	rateSet, err := s.GetRates(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	resp := &dto.ConvertRatesResponse{
		Amount:       amount,
		FromCurrency: req.FromCurrency,
		ToCurrency:   req.ToCurrency,
		Date:         rateSet.AsOf,
	}
	if result, ok := rateSet.Convert(amount, req.FromCurrency, req.ToCurrency); ok {
		resp.Result = &result
	}
	return resp, nil
}
