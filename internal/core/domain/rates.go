package domain

import (
	"time"
)

// DefaultBaseCurrency is the currency all published quotes are expressed against.
// The National Bank publishes every rate relative to BYN, so BYN itself never
// appears as a quote; it is still a valid conversion endpoint.
const DefaultBaseCurrency = "BYN"

// Quote is one currency's official rate record for a given date.
// OfficialRate is the base-currency value of Scale units of the quoted currency.
type Quote struct {
	CurrencyID   int       `json:"currencyID"`
	CurrencyCode string    `json:"currencyCode"`
	Scale        int       `json:"scale"`
	OfficialRate float64   `json:"officialRate"`
	DisplayName  string    `json:"name"`
	AsOfDate     time.Time `json:"date"`
}

// RateSet is the filtered, ordered, date-stamped collection of quotes used for
// one conversion session. It is built once per request and never mutated.
type RateSet struct {
	Base   string    `json:"base"`
	AsOf   time.Time `json:"date"`
	Quotes []Quote   `json:"rates"`
}

// Lookup returns the quote for the given currency code, if present.
func (rs RateSet) Lookup(code string) (Quote, bool) {
	for _, q := range rs.Quotes {
		if q.CurrencyCode == code {
			return q, true
		}
	}
	return Quote{}, false
}

// SelectRateSet narrows raw upstream quotes down to the allowlist and orders
// them by the allowlist's own sequence (the display priority), never
// alphabetically and never in source order. Quotes with a non-positive scale
// or rate are dropped, as are duplicates of an already selected code.
//
// The returned set's AsOf date falls back through a fixed chain: the first
// selected quote's date, then the requested date pinned to noon UTC, then now.
// The chain guarantees a usable date label even when the publisher has no
// table for the requested day (weekends, holidays).
func SelectRateSet(raw []Quote, base string, allowlist []string, requested *time.Time, now time.Time) RateSet {
	selected := make([]Quote, 0, len(allowlist))
	for _, code := range allowlist {
		for _, q := range raw {
			if q.CurrencyCode != code {
				continue
			}
			if q.Scale <= 0 || q.OfficialRate <= 0 {
				continue
			}
			selected = append(selected, q)
			break
		}
	}

	var asOf time.Time
	switch {
	case len(selected) > 0:
		asOf = selected[0].AsOfDate
	case requested != nil:
		d := requested.UTC()
		asOf = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
	default:
		asOf = now
	}

	return RateSet{
		Base:   base,
		AsOf:   asOf,
		Quotes: selected,
	}
}

// Convert computes the amount in the target currency, routing through the base
// currency. The second return value reports whether a result was computable at
// all: a missing quote yields (0, false), which is an expected outcome and must
// not be confused with a genuine zero result.
//
// The caller is responsible for rejecting negative or non-numeric amounts
// before calling; no rounding is applied here.
func (rs RateSet) Convert(amount float64, from, to string) (float64, bool) {
	if from == to {
		return amount, true
	}

	if from == rs.Base {
		target, ok := rs.Lookup(to)
		if !ok {
			return 0, false
		}
		// target.OfficialRate base units buy target.Scale foreign units.
		return amount * float64(target.Scale) / target.OfficialRate, true
	}

	if to == rs.Base {
		source, ok := rs.Lookup(from)
		if !ok {
			return 0, false
		}
		return amount * source.OfficialRate / float64(source.Scale), true
	}

	source, ok := rs.Lookup(from)
	if !ok {
		return 0, false
	}
	target, ok := rs.Lookup(to)
	if !ok {
		return 0, false
	}
	baseAmount := amount * source.OfficialRate / float64(source.Scale)
	return baseAmount * float64(target.Scale) / target.OfficialRate, true
}
