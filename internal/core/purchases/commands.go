package purchases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/SscSPs/purchase_service_app/internal/core/events"
	"github.com/SscSPs/purchase_service_app/internal/core/mediator"
	portsrepo "github.com/SscSPs/purchase_service_app/internal/core/ports/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreatePurchaseCommand records a new purchase in the reference currency.
type CreatePurchaseCommand struct {
	mediator.CommandBase
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transactionDate"`
	Amount          decimal.Decimal `json:"amount"`
}

func (CreatePurchaseCommand) RequestName() string { return "CreatePurchaseCommand" }

// CreatePurchaseResult is the command's response, carrying the persisted
// purchase and the PurchaseCreated event for the side-effect behavior.
type CreatePurchaseResult struct {
	Purchase domain.Purchase

	pending []events.Event
}

// DomainEvents returns the follow-up events published after the command
// succeeds.
func (r CreatePurchaseResult) DomainEvents() []events.Event { return r.pending }

// CreatePurchaseHandler persists new purchases.
type CreatePurchaseHandler struct {
	purchaseRepo portsrepo.PurchaseWriter
}

// NewCreatePurchaseHandler creates a new CreatePurchaseHandler.
func NewCreatePurchaseHandler(purchaseRepo portsrepo.PurchaseWriter) *CreatePurchaseHandler {
	return &CreatePurchaseHandler{purchaseRepo: purchaseRepo}
}

// Handle validates the command once more, then persists the purchase with a
// generated id, trimmed description, amount rounded to 2 decimals, and a UTC
// creation timestamp. The sanitization behavior normally normalizes the
// command first; the re-validation keeps the handler safe when dispatched
// without the pipeline.
func (h *CreatePurchaseHandler) Handle(ctx context.Context, cmd CreatePurchaseCommand) (CreatePurchaseResult, error) {
	if fieldErrors := ValidatePurchaseFields(cmd.Description, cmd.TransactionDate, cmd.Amount); len(fieldErrors) > 0 {
		return CreatePurchaseResult{}, apperrors.NewRequestValidationError(fieldErrors)
	}

	purchase := domain.Purchase{
		PurchaseID:      uuid.NewString(),
		Description:     strings.TrimSpace(cmd.Description),
		TransactionDate: cmd.TransactionDate,
		AmountUSD:       cmd.Amount.Round(2),
		CreatedAt:       time.Now().UTC(),
	}

	if err := h.purchaseRepo.CreatePurchase(ctx, purchase); err != nil {
		return CreatePurchaseResult{}, fmt.Errorf("failed to create purchase: %w", err)
	}

	return CreatePurchaseResult{
		Purchase: purchase,
		pending: []events.Event{PurchaseCreated{
			PurchaseID:      purchase.PurchaseID,
			Description:     purchase.Description,
			TransactionDate: purchase.TransactionDate,
			Amount:          purchase.AmountUSD,
		}},
	}, nil
}
