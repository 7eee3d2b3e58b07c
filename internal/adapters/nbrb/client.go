// Package nbrb is the HTTP adapter for the National Bank daily exchange rate
// publication. Each call performs exactly one outbound request: either the
// full quote table comes back or an upstream error does.
package nbrb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/skyrates/skyrates_backend/internal/apperrors"
	"github.com/skyrates/skyrates_backend/internal/core/domain"
	"github.com/skyrates/skyrates_backend/internal/core/ports/sources"
)

const (
	ondateLayout = "2006-01-02"
	// The publisher stamps quote dates without a zone designator.
	quoteDateLayout = "2006-01-02T15:04:05"

	maxErrorBodyBytes = 4 << 10
)

// Client fetches daily rate tables from the rate publisher.
type Client struct {
	ratesURL   string
	httpClient *http.Client
}

// NewClient creates a Client for the given rates endpoint URL.
func NewClient(ratesURL string, timeout time.Duration) *Client {
	return &Client{
		ratesURL: ratesURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ sources.RateSource = (*Client)(nil)

// rateRow mirrors one element of the publisher's JSON response.
type rateRow struct {
	CurID           int     `json:"Cur_ID"`
	Date            string  `json:"Date"`
	CurAbbreviation string  `json:"Cur_Abbreviation"`
	CurScale        int     `json:"Cur_Scale"`
	CurName         string  `json:"Cur_Name"`
	CurOfficialRate float64 `json:"Cur_OfficialRate"`
}

// FetchRates requests the daily quote table, for the given date when one is
// supplied and for the latest published table otherwise.
func (c *Client) FetchRates(ctx context.Context, date *time.Time) ([]domain.Quote, error) {
	url := c.ratesURL + "?periodicity=0"
	if date != nil {
		url += "&ondate=" + date.Format(ondateLayout)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: rates request failed: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rates endpoint returned status %d%s",
			apperrors.ErrUpstream, resp.StatusCode, upstreamMessage(resp.Body))
	}

	var rows []rateRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: failed to decode rates response: %v", apperrors.ErrUpstream, err)
	}

	quotes := make([]domain.Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, domain.Quote{
			CurrencyID:   row.CurID,
			CurrencyCode: row.CurAbbreviation,
			Scale:        row.CurScale,
			OfficialRate: row.CurOfficialRate,
			DisplayName:  row.CurName,
			AsOfDate:     parseQuoteDate(row.Date),
		})
	}
	return quotes, nil
}

// parseQuoteDate accepts the publisher's zoneless timestamp as well as full
// RFC 3339. An unparseable date yields the zero time rather than an error;
// the selector's fallback chain covers it.
func parseQuoteDate(raw string) time.Time {
	if d, err := time.Parse(quoteDateLayout, raw); err == nil {
		return d.UTC()
	}
	if d, err := time.Parse(time.RFC3339, raw); err == nil {
		return d.UTC()
	}
	return time.Time{}
}

// upstreamMessage extracts a short error description from a failed response
// body, preferring the JSON "message" field the publisher uses.
func upstreamMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return ": " + payload.Message
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return ": " + msg
	}
	return ""
}
