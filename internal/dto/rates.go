package dto

import (
	"time"

	"github.com/skyrates/skyrates_backend/internal/core/domain"
)

// QuoteResponse is one currency's published rate as returned to the client.
type QuoteResponse struct {
	CurrencyID   int     `json:"currencyID"`
	CurrencyCode string  `json:"currencyCode"`
	Scale        int     `json:"scale"`
	OfficialRate float64 `json:"officialRate"`
	Name         string  `json:"name"`
}

// RatesResponse is the selected daily rate set with its effective date.
type RatesResponse struct {
	Rates []QuoteResponse `json:"rates"`
	Date  time.Time       `json:"date"`
	Base  string          `json:"base"`
}

// ToRatesResponse converts a domain.RateSet to a RatesResponse DTO.
func ToRatesResponse(rs *domain.RateSet) RatesResponse {
	quotes := make([]QuoteResponse, len(rs.Quotes))
	for i, q := range rs.Quotes {
		quotes[i] = QuoteResponse{
			CurrencyID:   q.CurrencyID,
			CurrencyCode: q.CurrencyCode,
			Scale:        q.Scale,
			OfficialRate: q.OfficialRate,
			Name:         q.DisplayName,
		}
	}
	return RatesResponse{
		Rates: quotes,
		Date:  rs.AsOf,
		Base:  rs.Base,
	}
}

// ConvertRatesRequest asks for an amount to be converted between two currencies.
// Amount is a pointer so that a legitimate zero survives the required check.
type ConvertRatesRequest struct {
	Amount       *float64 `json:"amount" binding:"required,gte=0"`
	FromCurrency string   `json:"fromCurrency" binding:"required,currencycode"`
	ToCurrency   string   `json:"toCurrency" binding:"required,currencycode"`
	Date         string   `json:"date" binding:"omitempty"`
}

// ConvertRatesResponse carries the conversion outcome. Result is nil when the
// conversion was not computable (missing quote); that is a normal outcome and
// is distinct from a zero result.
type ConvertRatesResponse struct {
	Result       *float64  `json:"result"`
	Amount       float64   `json:"amount"`
	FromCurrency string    `json:"fromCurrency"`
	ToCurrency   string    `json:"toCurrency"`
	Date         time.Time `json:"date"`
}
