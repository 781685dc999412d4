package services

import (
	"context"
	"time"

	"github.com/SscSPs/purchase_service_app/internal/core/domain"
)

// RateSource looks up point-in-time exchange rates from an external,
// eventually-consistent provider.
type RateSource interface {
	// FindLatestRate returns the most recent published rate for the currency
	// with an effective date on or before the given date. Returns
	// apperrors.ErrNotFound when the provider has no matching record and
	// apperrors.ErrRateSourceUnavailable when the provider fails or returns
	// an unreadable payload. Exactly one upstream attempt per call; retry
	// policy is the caller's concern.
	FindLatestRate(ctx context.Context, currencyCode string, onOrBefore time.Time) (*domain.ExchangeRateDetails, error)
}
