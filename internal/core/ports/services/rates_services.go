package services

import (
	"context"

	"github.com/skyrates/skyrates_backend/internal/core/domain"
	"github.com/skyrates/skyrates_backend/internal/dto"
)

// RatesSvcFacade exposes the exchange-rate core: fetching the selected daily
// rate set and converting amounts through the base currency.
type RatesSvcFacade interface {
	// GetRates fetches and selects the rate set for the given date parameter.
	// An empty or unparseable dateParam requests the latest published table.
	GetRates(ctx context.Context, dateParam string) (*domain.RateSet, error)

	// Convert computes the conversion described by req against a freshly
	// fetched rate set. A missing quote is reported through the response's
	// nil Result, not through an error.
	Convert(ctx context.Context, req dto.ConvertRatesRequest) (*dto.ConvertRatesResponse, error)
}
