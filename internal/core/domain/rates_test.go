package domain_test

import (
	"testing"
	"time"

	"github.com/skyrates/skyrates_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowlist = []string{"USD", "EUR", "RUB", "PLN", "GBP", "CHF", "CNY", "CZK", "UAH", "TRY"}

func quoteDate() time.Time {
	return time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
}

func sampleQuotes() []domain.Quote {
	return []domain.Quote{
		{CurrencyID: 456, CurrencyCode: "RUB", Scale: 100, OfficialRate: 3.45, DisplayName: "Russian Rubles", AsOfDate: quoteDate()},
		{CurrencyID: 451, CurrencyCode: "EUR", Scale: 1, OfficialRate: 3.4, DisplayName: "Euro", AsOfDate: quoteDate()},
		{CurrencyID: 512, CurrencyCode: "AUD", Scale: 1, OfficialRate: 2.1, DisplayName: "Australian Dollar", AsOfDate: quoteDate()},
		{CurrencyID: 431, CurrencyCode: "USD", Scale: 1, OfficialRate: 3.1, DisplayName: "US Dollar", AsOfDate: quoteDate()},
	}
}

func sampleRateSet() domain.RateSet {
	return domain.SelectRateSet(sampleQuotes(), domain.DefaultBaseCurrency, testAllowlist, nil, time.Now())
}

func TestSelectRateSet_FiltersToAllowlist(t *testing.T) {
	rs := sampleRateSet()

	require.Len(t, rs.Quotes, 3)
	for _, q := range rs.Quotes {
		assert.Contains(t, testAllowlist, q.CurrencyCode)
		assert.Positive(t, q.Scale)
		assert.Positive(t, q.OfficialRate)
	}
	_, found := rs.Lookup("AUD")
	assert.False(t, found, "AUD is not on the allowlist and must be dropped")
}

func TestSelectRateSet_OrdersByPriorityNotSourceOrder(t *testing.T) {
	rs := sampleRateSet()

	codes := make([]string, len(rs.Quotes))
	for i, q := range rs.Quotes {
		codes[i] = q.CurrencyCode
	}
	// Source order is RUB, EUR, USD; priority order must win.
	assert.Equal(t, []string{"USD", "EUR", "RUB"}, codes)
}

func TestSelectRateSet_DropsInvalidQuotes(t *testing.T) {
	raw := []domain.Quote{
		{CurrencyCode: "USD", Scale: 0, OfficialRate: 3.1, AsOfDate: quoteDate()},
		{CurrencyCode: "EUR", Scale: 1, OfficialRate: -1, AsOfDate: quoteDate()},
		{CurrencyCode: "PLN", Scale: 10, OfficialRate: 8.2, AsOfDate: quoteDate()},
	}
	rs := domain.SelectRateSet(raw, domain.DefaultBaseCurrency, testAllowlist, nil, time.Now())

	require.Len(t, rs.Quotes, 1)
	assert.Equal(t, "PLN", rs.Quotes[0].CurrencyCode)
}

func TestSelectRateSet_KeepsFirstOfDuplicateCodes(t *testing.T) {
	raw := []domain.Quote{
		{CurrencyCode: "USD", Scale: 1, OfficialRate: 3.1, AsOfDate: quoteDate()},
		{CurrencyCode: "USD", Scale: 1, OfficialRate: 9.9, AsOfDate: quoteDate()},
	}
	rs := domain.SelectRateSet(raw, domain.DefaultBaseCurrency, testAllowlist, nil, time.Now())

	require.Len(t, rs.Quotes, 1)
	assert.Equal(t, 3.1, rs.Quotes[0].OfficialRate)
}

func TestSelectRateSet_AsOfFallbackChain(t *testing.T) {
	now := time.Date(2024, 3, 18, 9, 30, 0, 0, time.UTC)
	requested := time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC) // a Saturday

	t.Run("first quote date wins when quotes exist", func(t *testing.T) {
		rs := domain.SelectRateSet(sampleQuotes(), domain.DefaultBaseCurrency, testAllowlist, &requested, now)
		assert.Equal(t, quoteDate(), rs.AsOf)
	})

	t.Run("requested date at noon UTC when upstream is empty", func(t *testing.T) {
		rs := domain.SelectRateSet(nil, domain.DefaultBaseCurrency, testAllowlist, &requested, now)
		assert.Equal(t, time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC), rs.AsOf)
	})

	t.Run("now when nothing else is available", func(t *testing.T) {
		rs := domain.SelectRateSet(nil, domain.DefaultBaseCurrency, testAllowlist, nil, now)
		assert.Equal(t, now, rs.AsOf)
	})
}

func TestSelectRateSet_Deterministic(t *testing.T) {
	now := time.Date(2024, 3, 18, 9, 30, 0, 0, time.UTC)
	first := domain.SelectRateSet(sampleQuotes(), domain.DefaultBaseCurrency, testAllowlist, nil, now)
	second := domain.SelectRateSet(sampleQuotes(), domain.DefaultBaseCurrency, testAllowlist, nil, now)
	assert.Equal(t, first, second)
}

func TestRateSet_Convert(t *testing.T) {
	rs := sampleRateSet()

	tests := []struct {
		name       string
		amount     float64
		from       string
		to         string
		want       float64
		computable bool
	}{
		{name: "identity base to base", amount: 42.5, from: "BYN", to: "BYN", want: 42.5, computable: true},
		{name: "identity foreign to foreign", amount: 17, from: "USD", to: "USD", want: 17, computable: true},
		{name: "base to foreign", amount: 100, from: "BYN", to: "USD", want: 100 * 1 / 3.1, computable: true},
		{name: "foreign to base", amount: 100, from: "USD", to: "BYN", want: 310, computable: true},
		{name: "cross through base", amount: 100, from: "USD", to: "EUR", want: 100 * 3.1 / 3.4, computable: true},
		{name: "scaled quote to base", amount: 200, from: "RUB", to: "BYN", want: 200 * 3.45 / 100, computable: true},
		{name: "zero amount stays zero", amount: 0, from: "USD", to: "EUR", want: 0, computable: true},
		{name: "missing target quote", amount: 100, from: "USD", to: "ZZZ", computable: false},
		{name: "missing source quote", amount: 100, from: "ZZZ", to: "USD", computable: false},
		{name: "base to missing quote", amount: 100, from: "BYN", to: "JPY", computable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rs.Convert(tt.amount, tt.from, tt.to)
			require.Equal(t, tt.computable, ok)
			if tt.computable {
				assert.InDelta(t, tt.want, got, 1e-9)
			} else {
				assert.Zero(t, got)
			}
		})
	}
}

func TestRateSet_Convert_RoundTripLaw(t *testing.T) {
	rs := sampleRateSet()

	for _, code := range []string{"USD", "EUR", "RUB"} {
		out, ok := rs.Convert(100, domain.DefaultBaseCurrency, code)
		require.True(t, ok)
		back, ok := rs.Convert(out, code, domain.DefaultBaseCurrency)
		require.True(t, ok)
		assert.InDelta(t, 100, back, 1e-9, "round trip through %s", code)
	}
}

func TestRateSet_Convert_TransitiveThroughBase(t *testing.T) {
	rs := sampleRateSet()

	direct, ok := rs.Convert(250, "EUR", "RUB")
	require.True(t, ok)

	toBase, ok := rs.Convert(250, "EUR", domain.DefaultBaseCurrency)
	require.True(t, ok)
	viaBase, ok := rs.Convert(toBase, domain.DefaultBaseCurrency, "RUB")
	require.True(t, ok)

	assert.InDelta(t, direct, viaBase, 1e-9)
}

func TestRateSet_Convert_ConcreteScenario(t *testing.T) {
	rs := sampleRateSet()

	got, ok := rs.Convert(100, "BYN", "USD")
	require.True(t, ok)
	assert.InDelta(t, 32.258, got, 0.001)

	got, ok = rs.Convert(100, "USD", "BYN")
	require.True(t, ok)
	assert.InDelta(t, 310, got, 1e-9)

	got, ok = rs.Convert(100, "USD", "EUR")
	require.True(t, ok)
	assert.InDelta(t, 91.18, got, 0.01)
}
