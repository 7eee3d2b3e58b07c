package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/skyrates/skyrates_backend/internal/apperrors"
	"github.com/skyrates/skyrates_backend/internal/core/domain"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
	"github.com/skyrates/skyrates_backend/internal/dto"
	"github.com/skyrates/skyrates_backend/internal/metrics"
	"github.com/skyrates/skyrates_backend/internal/middleware"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// Registered once: prometheus collectors cannot be re-registered within a test binary.
var testMetrics = metrics.NewMetrics()

// --- Mock RatesService ---
type MockRatesService struct {
	mock.Mock
}

func (m *MockRatesService) GetRates(ctx context.Context, dateParam string) (*domain.RateSet, error) {
	args := m.Called(ctx, dateParam)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSet), args.Error(1)
}

func (m *MockRatesService) Convert(ctx context.Context, req dto.ConvertRatesRequest) (*dto.ConvertRatesResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ConvertRatesResponse), args.Error(1)
}

var _ portssvc.RatesSvcFacade = (*MockRatesService)(nil)

// --- Mock UserService ---
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, int, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

func (m *MockUserService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	args := m.Called(ctx, userID, req, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, refreshTokenExpiryTime time.Time) error {
	args := m.Called(ctx, userID, refreshTokenHash, refreshTokenExpiryTime)
	return args.Error(0)
}

func (m *MockUserService) ClearRefreshToken(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserService) SetStripeCustomerID(ctx context.Context, userID string, customerID string) error {
	args := m.Called(ctx, userID, customerID)
	return args.Error(0)
}

func (m *MockUserService) SetSubscriptionStatusByCustomerID(ctx context.Context, customerID string, status domain.SubscriptionStatus) error {
	args := m.Called(ctx, customerID, status)
	return args.Error(0)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	args := m.Called(ctx, userID, requestingUserID)
	return args.Error(0)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) FindOrCreateGoogleUser(ctx context.Context, info *domain.GoogleUserInfo) (*domain.User, error) {
	args := m.Called(ctx, info)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

// --- Test Suite ---
type RatesHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockRatesService *MockRatesService
	mockUserService  *MockUserService
	jwtSecret        string
}

func (suite *RatesHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	registerCustomValidations()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockRatesService = new(MockRatesService)
	suite.mockUserService = new(MockUserService)

	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	v1 := suite.router.Group("/api/v1")
	registerRatesRoutes(v1, suite.mockRatesService, suite.mockUserService, testMetrics)
}

// generateTestToken creates a dummy JWT for testing.
func (suite *RatesHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "skyrates-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *RatesHandlerTestSuite) premiumUser(userID string) *domain.User {
	return &domain.User{
		UserID:             userID,
		Email:              "premium@example.com",
		Role:               domain.RoleUser,
		SubscriptionStatus: domain.SubscriptionPremium,
	}
}

func (suite *RatesHandlerTestSuite) TestGetRates_Success() {
	userID := uuid.NewString()
	asOf := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	rateSet := &domain.RateSet{
		Base: "BYN",
		AsOf: asOf,
		Quotes: []domain.Quote{
			{CurrencyID: 431, CurrencyCode: "USD", Scale: 1, OfficialRate: 3.1, DisplayName: "US Dollar", AsOfDate: asOf},
			{CurrencyID: 451, CurrencyCode: "EUR", Scale: 1, OfficialRate: 3.4, DisplayName: "Euro", AsOfDate: asOf},
		},
	}

	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(suite.premiumUser(userID), nil).Once()
	suite.mockRatesService.On("GetRates", mock.Anything, "").Return(rateSet, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.RatesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("BYN", body.Base)
	suite.Len(body.Rates, 2)
	suite.Equal("USD", body.Rates[0].CurrencyCode)

	suite.mockRatesService.AssertExpectations(suite.T())
	suite.mockUserService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRates_PassesDateParam() {
	userID := uuid.NewString()
	asOf := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	rateSet := &domain.RateSet{Base: "BYN", AsOf: asOf, Quotes: []domain.Quote{}}

	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(suite.premiumUser(userID), nil).Once()
	suite.mockRatesService.On("GetRates", mock.Anything, "2025-03-12").Return(rateSet, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates?date=2025-03-12", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRatesService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRates_FreeUserForbidden() {
	userID := uuid.NewString()
	freeUser := &domain.User{
		UserID:             userID,
		Role:               domain.RoleUser,
		SubscriptionStatus: domain.SubscriptionFree,
	}
	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(freeUser, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockRatesService.AssertNotCalled(suite.T(), "GetRates")
}

func (suite *RatesHandlerTestSuite) TestGetRates_AdminBypassesSubscription() {
	userID := uuid.NewString()
	admin := &domain.User{
		UserID:             userID,
		Role:               domain.RoleAdmin,
		SubscriptionStatus: domain.SubscriptionFree,
	}
	asOf := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(admin, nil).Once()
	suite.mockRatesService.On("GetRates", mock.Anything, "").Return(&domain.RateSet{Base: "BYN", AsOf: asOf}, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *RatesHandlerTestSuite) TestGetRates_MissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockRatesService.AssertNotCalled(suite.T(), "GetRates")
}

func (suite *RatesHandlerTestSuite) TestGetRates_UpstreamFailure() {
	userID := uuid.NewString()
	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(suite.premiumUser(userID), nil).Once()
	suite.mockRatesService.On("GetRates", mock.Anything, "").Return(nil, apperrors.ErrUpstream).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/rates", nil)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadGateway, w.Code)
}

func (suite *RatesHandlerTestSuite) TestConvert_Success() {
	userID := uuid.NewString()
	amount := 100.0
	result := 32.26
	reqBody := dto.ConvertRatesRequest{
		Amount:       &amount,
		FromCurrency: "BYN",
		ToCurrency:   "USD",
	}
	response := &dto.ConvertRatesResponse{
		Result:       &result,
		Amount:       amount,
		FromCurrency: "BYN",
		ToCurrency:   "USD",
		Date:         time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
	}

	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(suite.premiumUser(userID), nil).Once()
	suite.mockRatesService.On("Convert", mock.Anything, reqBody).Return(response, nil).Once()

	payload, _ := json.Marshal(reqBody)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/rates/convert", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var body dto.ConvertRatesResponse
	suite.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.NotNil(body.Result)
	suite.InDelta(result, *body.Result, 1e-9)

	suite.mockRatesService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestConvert_InvalidCurrencyCode() {
	userID := uuid.NewString()
	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(suite.premiumUser(userID), nil).Once()

	payload := []byte(`{"amount": 10, "fromCurrency": "usd", "toCurrency": "EUR"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/rates/convert", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRatesService.AssertNotCalled(suite.T(), "Convert")
}

func (suite *RatesHandlerTestSuite) TestConvert_MissingAmount() {
	userID := uuid.NewString()
	suite.mockUserService.On("GetUserByID", mock.Anything, userID).Return(suite.premiumUser(userID), nil).Once()

	payload := []byte(`{"fromCurrency": "USD", "toCurrency": "EUR"}`)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/rates/convert", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockRatesService.AssertNotCalled(suite.T(), "Convert")
}

func TestRatesHandler(t *testing.T) {
	suite.Run(t, new(RatesHandlerTestSuite))
}
