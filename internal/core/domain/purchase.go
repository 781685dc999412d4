package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date layout used for transaction and rate
// effective dates throughout the service. Neither carries a time component.
const DateFormat = "2006-01-02"

// ReferenceCurrency is the fixed currency purchases are recorded in.
const ReferenceCurrency = "USD"

// Purchase is a recorded purchase transaction. The amount is stored in the
// reference currency, already rounded to 2 decimal places. Purchases are
// immutable once created and are never deleted by this service.
type Purchase struct {
	PurchaseID      string          `json:"purchaseID"` // Primary Key (UUID)
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transactionDate"` // calendar date, UTC midnight
	AmountUSD       decimal.Decimal `json:"amountUSD"`
	CreatedAt       time.Time       `json:"createdAt"` // UTC
}

// ExchangeRateDetails is a point-in-time exchange rate for a currency.
// Convention: AmountUSD × Rate = amount in the target currency. The effective
// date may precede the date the rate was requested for.
type ExchangeRateDetails struct {
	CurrencyCode  string          `json:"currencyCode"` // normalized uppercase
	EffectiveDate time.Time       `json:"effectiveDate"`
	Rate          decimal.Decimal `json:"rate"` // positive
}

// ConversionResult is a purchase presented in a target currency. It is
// derived on read and never persisted.
type ConversionResult struct {
	Purchase
	TargetCurrency  string              `json:"targetCurrency"`
	ExchangeRate    ExchangeRateDetails `json:"exchangeRate"`
	ConvertedAmount decimal.Decimal     `json:"convertedAmount"` // rounded to 2 decimals
}
