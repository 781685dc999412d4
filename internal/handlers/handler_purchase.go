package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/SscSPs/purchase_service_app/internal/core/mediator"
	"github.com/SscSPs/purchase_service_app/internal/core/purchases"
	"github.com/SscSPs/purchase_service_app/internal/dto"
	"github.com/SscSPs/purchase_service_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// purchaseHandler handles HTTP requests related to purchases.
type purchaseHandler struct {
	dispatcher *mediator.Mediator
}

// newPurchaseHandler creates a new purchaseHandler.
func newPurchaseHandler(dispatcher *mediator.Mediator) *purchaseHandler {
	return &purchaseHandler{dispatcher: dispatcher}
}

// registerPurchaseRoutes registers routes related to purchases.
func registerPurchaseRoutes(rg *gin.RouterGroup, dispatcher *mediator.Mediator) {
	h := newPurchaseHandler(dispatcher)

	purchaseRoutes := rg.Group("/purchases")
	{
		purchaseRoutes.POST("", h.createPurchase)
		purchaseRoutes.GET("/:id", h.getPurchase)
	}
}

// createPurchase godoc
// @Summary Record a new purchase
// @Description Records a purchase in USD with a description, calendar date and amount
// @Tags purchases
// @Accept  json
// @Produce  json
// @Param   purchase body dto.CreatePurchaseRequest true "Purchase details"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} map[string]interface{} "Invalid input format or validation error"
// @Failure 500 {object} map[string]string "Failed to record purchase"
// @Router /purchases [post]
func (h *purchaseHandler) createPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePurchase", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	transactionDate, err := time.ParseInLocation(domain.DateFormat, req.TransactionDate, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction date: " + err.Error()})
		return
	}

	cmd := purchases.CreatePurchaseCommand{
		Description:     req.Description,
		TransactionDate: transactionDate,
		Amount:          req.Amount,
	}

	result, err := mediator.Send[purchases.CreatePurchaseResult](c.Request.Context(), h.dispatcher, cmd)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPurchaseResponse(result.Purchase))
}

// getPurchase godoc
// @Summary Get a purchase converted into a currency
// @Description Retrieves a purchase with its amount converted using the most recent exchange rate on or before the transaction date
// @Tags purchases
// @Produce  json
// @Param   id path string true "Purchase ID"
// @Param   currency query string true "Target currency code"
// @Success 200 {object} dto.ConvertedPurchaseResponse
// @Failure 400 {object} map[string]interface{} "Missing currency or no usable exchange rate"
// @Failure 404 {object} map[string]string "Purchase not found"
// @Router /purchases/{id} [get]
func (h *purchaseHandler) getPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	query := purchases.GetPurchaseQuery{
		PurchaseID: c.Param("id"),
		Currency:   c.Query("currency"),
	}

	result, err := mediator.Send[domain.ConversionResult](c.Request.Context(), h.dispatcher, query)
	if err != nil {
		respondWithError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToConvertedPurchaseResponse(result))
}

// respondWithError maps the two business error kinds and not-found to their
// intended status codes; everything else is logged and surfaced as a generic
// failure.
func respondWithError(c *gin.Context, logger *slog.Logger, err error) {
	var validationErr *apperrors.RequestValidationError
	if errors.As(err, &validationErr) {
		logger.Warn("Request validation failed", slog.Any("field_errors", validationErr.Fields))
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErr.Fields})
		return
	}

	var conversionErr *apperrors.CurrencyConversionError
	if errors.As(err, &conversionErr) {
		logger.Warn("Currency conversion failed", slog.String("error", conversionErr.Message))
		c.JSON(http.StatusBadRequest, gin.H{"error": conversionErr.Message})
		return
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		return
	}

	logger.Error("Unhandled error processing request", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred"})
}
