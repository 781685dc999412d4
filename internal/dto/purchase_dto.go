package dto

import (
	"time"

	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest defines the structure for recording a new purchase.
// Description and amount are left to the sanitization pipeline so the caller
// gets per-field messages; only the date format is enforced at binding time.
type CreatePurchaseRequest struct {
	Description     string          `json:"description"`
	TransactionDate string          `json:"transactionDate" binding:"required,datetime=2006-01-02"`
	Amount          decimal.Decimal `json:"amount"`
}

// PurchaseResponse defines the structure for API responses containing a purchase.
type PurchaseResponse struct {
	PurchaseID      string          `json:"purchaseID"`
	Description     string          `json:"description"`
	TransactionDate string          `json:"transactionDate"`
	AmountUSD       decimal.Decimal `json:"amountUSD"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ToPurchaseResponse converts a domain.Purchase to PurchaseResponse DTO
func ToPurchaseResponse(purchase domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		PurchaseID:      purchase.PurchaseID,
		Description:     purchase.Description,
		TransactionDate: purchase.TransactionDate.Format(domain.DateFormat),
		AmountUSD:       purchase.AmountUSD,
		CreatedAt:       purchase.CreatedAt,
	}
}

// ConvertedPurchaseResponse defines the structure for API responses
// containing a purchase converted into a target currency.
type ConvertedPurchaseResponse struct {
	PurchaseID       string          `json:"purchaseID"`
	Description      string          `json:"description"`
	TransactionDate  string          `json:"transactionDate"`
	AmountUSD        decimal.Decimal `json:"amountUSD"`
	TargetCurrency   string          `json:"targetCurrency"`
	ExchangeRate     decimal.Decimal `json:"exchangeRate"`
	ExchangeRateDate string          `json:"exchangeRateDate"`
	ConvertedAmount  decimal.Decimal `json:"convertedAmount"`
}

// ToConvertedPurchaseResponse converts a domain.ConversionResult to ConvertedPurchaseResponse DTO
func ToConvertedPurchaseResponse(result domain.ConversionResult) ConvertedPurchaseResponse {
	return ConvertedPurchaseResponse{
		PurchaseID:       result.PurchaseID,
		Description:      result.Description,
		TransactionDate:  result.TransactionDate.Format(domain.DateFormat),
		AmountUSD:        result.AmountUSD,
		TargetCurrency:   result.TargetCurrency,
		ExchangeRate:     result.ExchangeRate.Rate,
		ExchangeRateDate: result.ExchangeRate.EffectiveDate.Format(domain.DateFormat),
		ConvertedAmount:  result.ConvertedAmount,
	}
}
