package repositories

import (
	"context"

	"github.com/SscSPs/purchase_service_app/internal/core/domain"
)

// PurchaseReader defines read operations for purchase data
type PurchaseReader interface {
	// FindPurchaseByID retrieves a purchase by its ID.
	// Returns apperrors.ErrNotFound if no purchase exists with the given ID.
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
}

// PurchaseWriter defines write operations for purchase data
type PurchaseWriter interface {
	// CreatePurchase persists a new purchase.
	CreatePurchase(ctx context.Context, purchase domain.Purchase) error
}

// PurchaseRepository combines read and write operations for purchases.
type PurchaseRepository interface {
	PurchaseReader
	PurchaseWriter
}
