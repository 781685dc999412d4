package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/purchase_service_app/internal/adapters/rates"
	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/SscSPs/purchase_service_app/internal/core/events"
	"github.com/SscSPs/purchase_service_app/internal/core/mediator"
	"github.com/SscSPs/purchase_service_app/internal/core/purchases"
	"github.com/SscSPs/purchase_service_app/internal/core/services"
	"github.com/SscSPs/purchase_service_app/internal/dto"
	"github.com/SscSPs/purchase_service_app/internal/handlers"
	"github.com/SscSPs/purchase_service_app/internal/middleware"
	"github.com/SscSPs/purchase_service_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// --- In-memory purchase repository ---
type memoryPurchaseRepo struct {
	mu        sync.Mutex
	purchases map[string]domain.Purchase
}

func newMemoryPurchaseRepo() *memoryPurchaseRepo {
	return &memoryPurchaseRepo{purchases: make(map[string]domain.Purchase)}
}

func (r *memoryPurchaseRepo) CreatePurchase(ctx context.Context, purchase domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purchases[purchase.PurchaseID] = purchase
	return nil
}

func (r *memoryPurchaseRepo) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	purchase, ok := r.purchases[purchaseID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &purchase, nil
}

// --- Stub rate source ---
type stubRateSource struct {
	details *domain.ExchangeRateDetails
	err     error
}

func (s *stubRateSource) FindLatestRate(ctx context.Context, currencyCode string, onOrBefore time.Time) (*domain.ExchangeRateDetails, error) {
	if s.err != nil {
		return nil, s.err
	}
	details := *s.details
	details.CurrencyCode = strings.ToUpper(strings.TrimSpace(currencyCode))
	return &details, nil
}

// --- Test Suite ---
type PurchaseHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	rateSource *stubRateSource
}

func (suite *PurchaseHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	logger := slog.Default()

	suite.rateSource = &stubRateSource{
		details: &domain.ExchangeRateDetails{
			EffectiveDate: mustDate("2024-05-09"),
			Rate:          decimal.RequireFromString("2.0"),
		},
	}

	cached := rates.NewCachingRateSource(suite.rateSource, time.Minute)
	conversionService := services.NewCurrencyConversionService(cached)
	repo := newMemoryPurchaseRepo()

	eventDispatcher := events.NewDispatcher(logger)
	createdHandler := purchases.NewPurchaseCreatedHandler(logger)
	events.Subscribe(eventDispatcher, createdHandler.Handle)

	sanitization := mediator.NewSanitizationBehavior(logger)
	mediator.RegisterSanitizer[purchases.CreatePurchaseCommand](sanitization, purchases.CreatePurchaseSanitizer{})

	dispatcher := mediator.New(
		sanitization,
		mediator.NewLoggingBehavior(logger),
		mediator.NewSideEffectBehavior(logger, eventDispatcher),
	)
	mediator.Register[purchases.CreatePurchaseCommand, purchases.CreatePurchaseResult](
		dispatcher, purchases.NewCreatePurchaseHandler(repo))
	mediator.Register[purchases.GetPurchaseQuery, domain.ConversionResult](
		dispatcher, purchases.NewGetPurchaseHandler(repo, conversionService))

	rateLimit, err := limiter.NewRateFromFormatted("1000-S")
	suite.Require().NoError(err)
	rateLimiter := limiter.New(memory.NewStore(), rateLimit)

	cfg := &config.Config{IsProduction: true}

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(logger))
	handlers.RegisterRoutes(suite.router, cfg, dispatcher, rateLimiter)
}

func mustDate(value string) time.Time {
	d, err := time.ParseInLocation(domain.DateFormat, value, time.UTC)
	if err != nil {
		panic(err)
	}
	return d
}

func (suite *PurchaseHandlerTestSuite) postPurchase(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchases", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PurchaseHandlerTestSuite) getPurchase(id, currency string) *httptest.ResponseRecorder {
	url := fmt.Sprintf("/api/v1/purchases/%s?currency=%s", id, currency)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PurchaseHandlerTestSuite) TestCreateThenGetConvertedPurchase() {
	w := suite.postPurchase(`{"description":"Coffee beans","transactionDate":"2024-06-15","amount":25.50}`)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var created dto.PurchaseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.NotEmpty(created.PurchaseID)
	suite.Equal("Coffee beans", created.Description)
	suite.Equal("2024-06-15", created.TransactionDate)
	suite.True(created.AmountUSD.Equal(decimal.RequireFromString("25.50")))

	w = suite.getPurchase(created.PurchaseID, "EUR")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var converted dto.ConvertedPurchaseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &converted))
	suite.Equal(created.PurchaseID, converted.PurchaseID)
	suite.Equal("EUR", converted.TargetCurrency)
	suite.Equal("2024-05-09", converted.ExchangeRateDate)
	suite.True(converted.ConvertedAmount.Equal(decimal.RequireFromString("51.00")),
		"expected 51.00, got %s", converted.ConvertedAmount)
}

func (suite *PurchaseHandlerTestSuite) TestCreatePurchaseTrimsDescription() {
	w := suite.postPurchase(`{"description":"  Coffee beans  ","transactionDate":"2024-06-15","amount":25.50}`)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created dto.PurchaseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	suite.Equal("Coffee beans", created.Description)
}

func (suite *PurchaseHandlerTestSuite) TestCreatePurchaseValidationErrorListsFields() {
	longDescription := strings.Repeat("x", 51)
	w := suite.postPurchase(fmt.Sprintf(`{"description":%q,"transactionDate":"2024-06-15","amount":0}`, longDescription))

	suite.Require().Equal(http.StatusBadRequest, w.Code)

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Contains(body.Errors, "description")
	suite.Contains(body.Errors, "amount")
}

func (suite *PurchaseHandlerTestSuite) TestCreatePurchaseRejectsMalformedDate() {
	w := suite.postPurchase(`{"description":"Coffee beans","transactionDate":"15/06/2024","amount":25.50}`)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PurchaseHandlerTestSuite) TestGetPurchaseUnknownIDReturns404() {
	w := suite.getPurchase("00000000-0000-0000-0000-000000000000", "EUR")

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PurchaseHandlerTestSuite) TestGetPurchaseWithoutCurrencyReturns400() {
	w := suite.postPurchase(`{"description":"Coffee beans","transactionDate":"2024-06-15","amount":25.50}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var created dto.PurchaseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	w = suite.getPurchase(created.PurchaseID, "")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PurchaseHandlerTestSuite) TestGetPurchaseWithNoAvailableRateReturns400() {
	suite.rateSource.details = nil
	suite.rateSource.err = apperrors.ErrNotFound

	w := suite.postPurchase(`{"description":"Coffee beans","transactionDate":"2024-06-15","amount":25.50}`)
	suite.Require().Equal(http.StatusCreated, w.Code)
	var created dto.PurchaseResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	w = suite.getPurchase(created.PurchaseID, "XTS")

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "no exchange rate found")
}

func (suite *PurchaseHandlerTestSuite) TestHealthEndpoint() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
}

func TestPurchaseHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseHandlerTestSuite))
}
