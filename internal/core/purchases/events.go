package purchases

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseCreated is published after a purchase is persisted.
type PurchaseCreated struct {
	PurchaseID      string          `json:"purchaseID"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transactionDate"`
	Amount          decimal.Decimal `json:"amount"`
}

func (PurchaseCreated) EventName() string { return "PurchaseCreated" }

// PurchaseCreatedHandler is the default subscriber for PurchaseCreated. It
// only logs an acknowledgement; follow-up notifications (messaging, exports)
// would hang off this seam.
type PurchaseCreatedHandler struct {
	logger *slog.Logger
}

// NewPurchaseCreatedHandler creates a new PurchaseCreatedHandler.
func NewPurchaseCreatedHandler(logger *slog.Logger) *PurchaseCreatedHandler {
	return &PurchaseCreatedHandler{logger: logger}
}

func (h *PurchaseCreatedHandler) Handle(ctx context.Context, event PurchaseCreated) error {
	h.logger.Info("Purchase created",
		slog.String("purchase_id", event.PurchaseID),
		slog.String("transaction_date", event.TransactionDate.Format("2006-01-02")),
	)
	return nil
}
