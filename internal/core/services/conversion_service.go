package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	portssvc "github.com/SscSPs/purchase_service_app/internal/core/ports/services"
)

// CurrencyConversionService applies the staleness policy and rounding rules
// on top of a raw rate lookup.
type CurrencyConversionService struct {
	rateSource portssvc.RateSource
}

// NewCurrencyConversionService creates a new CurrencyConversionService.
func NewCurrencyConversionService(rateSource portssvc.RateSource) *CurrencyConversionService {
	return &CurrencyConversionService{rateSource: rateSource}
}

// Convert looks up the most recent rate on or before the purchase's
// transaction date, rejects rates older than six calendar months before that
// date (a rate exactly six months prior is acceptable), and computes the
// converted amount rounded to 2 decimals, half away from zero.
func (s *CurrencyConversionService) Convert(ctx context.Context, purchase domain.Purchase, targetCurrency string) (*domain.ConversionResult, error) {
	code := strings.ToUpper(strings.TrimSpace(targetCurrency))
	if code == "" {
		return nil, apperrors.NewCurrencyConversionError("target currency is required")
	}

	details, err := s.rateSource.FindLatestRate(ctx, code, purchase.TransactionDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewCurrencyConversionError(
				"no exchange rate found for %s on or before %s",
				code, purchase.TransactionDate.Format(domain.DateFormat))
		}
		if errors.Is(err, apperrors.ErrRateSourceUnavailable) {
			// Don't leak transport detail to the caller.
			return nil, apperrors.NewCurrencyConversionError(
				"failed to retrieve exchange rate for %s", code)
		}
		return nil, fmt.Errorf("looking up exchange rate for %s: %w", code, err)
	}

	earliest := addMonthsClamped(purchase.TransactionDate, -6)
	if details.EffectiveDate.Before(earliest) || details.EffectiveDate.After(purchase.TransactionDate) {
		return nil, apperrors.NewCurrencyConversionError(
			"no exchange rate within six months prior to %s for %s",
			purchase.TransactionDate.Format(domain.DateFormat), code)
	}

	// shopspring's Round rounds half away from zero, the currency convention
	// this service requires (0.005 rounds to 0.01).
	convertedAmount := purchase.AmountUSD.Mul(details.Rate).Round(2)

	return &domain.ConversionResult{
		Purchase:        purchase,
		TargetCurrency:  code,
		ExchangeRate:    *details,
		ConvertedAmount: convertedAmount,
	}, nil
}

// addMonthsClamped shifts a date by whole months, clamping the day to the
// last day of the resulting month. time.AddDate would normalize an
// overflowed day forward (Oct 31 minus 6 months becoming May 1), which would
// move the staleness window boundary.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}
