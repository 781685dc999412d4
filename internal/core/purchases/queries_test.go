package purchases_test

import (
	"context"
	"testing"

	"github.com/SscSPs/purchase_service_app/internal/apperrors"
	"github.com/SscSPs/purchase_service_app/internal/core/domain"
	"github.com/SscSPs/purchase_service_app/internal/core/purchases"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock CurrencyConverterSvc ---
type MockCurrencyConverter struct {
	mock.Mock
}

func (m *MockCurrencyConverter) Convert(ctx context.Context, purchase domain.Purchase, targetCurrency string) (*domain.ConversionResult, error) {
	args := m.Called(ctx, purchase, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConversionResult), args.Error(1)
}

// --- Test Suite ---
type GetPurchaseHandlerTestSuite struct {
	suite.Suite
	mockRepo      *MockPurchaseRepository
	mockConverter *MockCurrencyConverter
	handler       *purchases.GetPurchaseHandler
}

func (suite *GetPurchaseHandlerTestSuite) SetupTest() {
	suite.mockRepo = new(MockPurchaseRepository)
	suite.mockConverter = new(MockCurrencyConverter)
	suite.handler = purchases.NewGetPurchaseHandler(suite.mockRepo, suite.mockConverter)
}

func (suite *GetPurchaseHandlerTestSuite) storedPurchase() *domain.Purchase {
	return &domain.Purchase{
		PurchaseID:      "11111111-2222-3333-4444-555555555555",
		Description:     "Coffee beans",
		TransactionDate: date("2024-06-15"),
		AmountUSD:       decimal.RequireFromString("25.50"),
	}
}

func (suite *GetPurchaseHandlerTestSuite) TestHandleReturnsConversionResult() {
	purchase := suite.storedPurchase()
	expected := &domain.ConversionResult{
		Purchase:        *purchase,
		TargetCurrency:  "EUR",
		ConvertedAmount: decimal.RequireFromString("51.00"),
	}
	suite.mockRepo.On("FindPurchaseByID", mock.Anything, purchase.PurchaseID).Return(purchase, nil)
	suite.mockConverter.On("Convert", mock.Anything, *purchase, "EUR").Return(expected, nil)

	result, err := suite.handler.Handle(context.Background(), purchases.GetPurchaseQuery{
		PurchaseID: purchase.PurchaseID,
		Currency:   "EUR",
	})

	suite.Require().NoError(err)
	suite.Equal("EUR", result.TargetCurrency)
	suite.True(result.ConvertedAmount.Equal(decimal.RequireFromString("51.00")))
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockConverter.AssertExpectations(suite.T())
}

func (suite *GetPurchaseHandlerTestSuite) TestHandleRejectsBlankCurrencyBeforeLoading() {
	_, err := suite.handler.Handle(context.Background(), purchases.GetPurchaseQuery{
		PurchaseID: "some-id",
		Currency:   "  ",
	})

	suite.Require().Error(err)
	var conversionErr *apperrors.CurrencyConversionError
	suite.ErrorAs(err, &conversionErr)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindPurchaseByID")
}

func (suite *GetPurchaseHandlerTestSuite) TestHandlePropagatesNotFound() {
	suite.mockRepo.On("FindPurchaseByID", mock.Anything, "missing-id").Return(nil, apperrors.ErrNotFound)

	_, err := suite.handler.Handle(context.Background(), purchases.GetPurchaseQuery{
		PurchaseID: "missing-id",
		Currency:   "EUR",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockConverter.AssertNotCalled(suite.T(), "Convert")
}

func (suite *GetPurchaseHandlerTestSuite) TestHandlePropagatesConversionFailure() {
	purchase := suite.storedPurchase()
	suite.mockRepo.On("FindPurchaseByID", mock.Anything, purchase.PurchaseID).Return(purchase, nil)
	suite.mockConverter.On("Convert", mock.Anything, *purchase, "XTS").
		Return(nil, apperrors.NewCurrencyConversionError("no exchange rate found for XTS"))

	_, err := suite.handler.Handle(context.Background(), purchases.GetPurchaseQuery{
		PurchaseID: purchase.PurchaseID,
		Currency:   "XTS",
	})

	suite.Require().Error(err)
	var conversionErr *apperrors.CurrencyConversionError
	suite.ErrorAs(err, &conversionErr)
}

func TestGetPurchaseHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetPurchaseHandlerTestSuite))
}
