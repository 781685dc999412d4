package services

import (
	"context"

	"github.com/SscSPs/purchase_service_app/internal/core/domain"
)

// CurrencyConverterSvc converts purchases into a target currency using a
// historical exchange rate.
type CurrencyConverterSvc interface {
	// Convert produces the purchase's ConversionResult in the target
	// currency. Fails with apperrors.CurrencyConversionError when the target
	// currency is blank, no usable rate exists, or the rate source is
	// unavailable.
	Convert(ctx context.Context, purchase domain.Purchase, targetCurrency string) (*domain.ConversionResult, error)
}
