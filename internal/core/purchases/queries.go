package purchases

import (
	"context"
	"fmt"
	"strings"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/SscSPs/purchase_service_app/internal/core/mediator"
	portsrepo "github.com/SscSPs/purchase_service_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/purchase_service_app/internal/core/ports/services"
)

// GetPurchaseQuery retrieves a purchase converted into a target currency.
type GetPurchaseQuery struct {
	mediator.QueryBase
	PurchaseID string `json:"purchaseID"`
	Currency   string `json:"currency"`
}

func (GetPurchaseQuery) RequestName() string { return "GetPurchaseQuery" }

// GetPurchaseHandler loads a purchase and converts it.
type GetPurchaseHandler struct {
	purchaseRepo portsrepo.PurchaseReader
	converter    portssvc.CurrencyConverterSvc
}

// NewGetPurchaseHandler creates a new GetPurchaseHandler.
func NewGetPurchaseHandler(purchaseRepo portsrepo.PurchaseReader, converter portssvc.CurrencyConverterSvc) *GetPurchaseHandler {
	return &GetPurchaseHandler{purchaseRepo: purchaseRepo, converter: converter}
}

// Handle returns the purchase converted into the query's currency. A missing
// purchase surfaces as apperrors.ErrNotFound; conversion failures surface as
// apperrors.CurrencyConversionError.
func (h *GetPurchaseHandler) Handle(ctx context.Context, query GetPurchaseQuery) (domain.ConversionResult, error) {
	if strings.TrimSpace(query.Currency) == "" {
		return domain.ConversionResult{}, apperrors.NewCurrencyConversionError("currency query parameter is required")
	}

	purchase, err := h.purchaseRepo.FindPurchaseByID(ctx, query.PurchaseID)
	if err != nil {
		return domain.ConversionResult{}, fmt.Errorf("failed to get purchase %s: %w", query.PurchaseID, err)
	}

	result, err := h.converter.Convert(ctx, *purchase, query.Currency)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	return *result, nil
}
