package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultTreasuryAPIURL is the fiscal data rates-of-exchange endpoint.
const DefaultTreasuryAPIURL = "https://api.fiscaldata.treasury.gov/services/api/fiscal_service/v1/accounting/od/rates_of_exchange"

// TreasuryClient implements the ports RateSource against the treasury fiscal
// data API. One outbound call per lookup, no retries.
type TreasuryClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewTreasuryClient creates a TreasuryClient. An empty baseURL falls back to
// DefaultTreasuryAPIURL.
func NewTreasuryClient(baseURL string, timeout time.Duration, logger *slog.Logger) *TreasuryClient {
	if baseURL == "" {
		baseURL = DefaultTreasuryAPIURL
	}
	return &TreasuryClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// treasuryRecord is one row of the API's JSON payload. Both fields arrive as
// strings.
type treasuryRecord struct {
	RecordDate   string `json:"record_date"`
	Currency     string `json:"currency"`
	ExchangeRate string `json:"exchange_rate"`
}

// FindLatestRate queries the single most recent published rate for the
// currency with record_date on or before the given date. A 404 or an empty
// data array means no rate exists (apperrors.ErrNotFound); any other
// non-success status or an unreadable payload is an upstream failure
// (apperrors.ErrRateSourceUnavailable).
func (c *TreasuryClient) FindLatestRate(ctx context.Context, currencyCode string, onOrBefore time.Time) (*domain.ExchangeRateDetails, error) {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))

	query := url.Values{}
	query.Set("fields", "record_date,currency,exchange_rate")
	query.Set("filter", fmt.Sprintf("currency:eq:%s,record_date:lte:%s", code, onOrBefore.Format(domain.DateFormat)))
	query.Set("sort", "-record_date")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building treasury request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, apperrors.ErrNotFound
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("Treasury API returned non-success status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrRateSourceUnavailable, resp.StatusCode)
	}

	var payload struct {
		Data *[]treasuryRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Warn("Failed to decode treasury API payload", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: decoding payload: %v", apperrors.ErrRateSourceUnavailable, err)
	}
	if payload.Data == nil {
		c.logger.Warn("Treasury API payload missing data array")
		return nil, fmt.Errorf("%w: payload missing data array", apperrors.ErrRateSourceUnavailable)
	}
	if len(*payload.Data) == 0 {
		return nil, apperrors.ErrNotFound
	}

	first := (*payload.Data)[0]
	effectiveDate, err := time.ParseInLocation(domain.DateFormat, first.RecordDate, time.UTC)
	if err != nil {
		c.logger.Warn("Unreadable record_date in treasury API payload", slog.String("record_date", first.RecordDate))
		return nil, fmt.Errorf("%w: unreadable record_date %q", apperrors.ErrRateSourceUnavailable, first.RecordDate)
	}
	rate, err := decimal.NewFromString(first.ExchangeRate)
	if err != nil {
		c.logger.Warn("Unreadable exchange_rate in treasury API payload", slog.String("exchange_rate", first.ExchangeRate))
		return nil, fmt.Errorf("%w: unreadable exchange_rate %q", apperrors.ErrRateSourceUnavailable, first.ExchangeRate)
	}

	return &domain.ExchangeRateDetails{
		CurrencyCode:  code,
		EffectiveDate: effectiveDate,
		Rate:          rate,
	}, nil
}
