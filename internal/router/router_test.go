package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/techstore-backend/internal/config"
	"github.com/javajoker/techstore-backend/internal/handlers"
	"github.com/javajoker/techstore-backend/internal/i18n"
	"github.com/javajoker/techstore-backend/internal/models"
	"github.com/javajoker/techstore-backend/internal/services"
)

type stubSource struct {
	products map[string][]models.Product
	err      error
}

func (s *stubSource) FetchCategory(_ context.Context, category string) ([]models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.products[category], nil
}

type stubGeocoder struct {
	address string
	err     error
}

func (s *stubGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (string, error) {
	return s.address, s.err
}

// manualScheduler runs scheduled tasks only when Flush is called.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []func()
}

func (m *manualScheduler) Schedule(_ time.Duration, task func()) services.CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := len(m.tasks)
	m.tasks = append(m.tasks, task)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.tasks[idx] == nil {
			return false
		}
		m.tasks[idx] = nil
		return true
	}
}

func (m *manualScheduler) Flush() {
	m.mu.Lock()
	tasks := m.tasks
	m.tasks = make([]func(), len(tasks))
	m.mu.Unlock()

	for _, task := range tasks {
		if task != nil {
			task()
		}
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type RouterTestSuite struct {
	suite.Suite
	router    *gin.Engine
	scheduler *manualScheduler
	geocoder  *stubGeocoder
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Session:     config.SessionConfig{SecretKey: "test-secret", TTLHours: 1},
		Geocoding:   config.GeocodingConfig{DefaultLat: -30.0346, DefaultLng: -51.2177},
		I18n:        config.I18nConfig{DefaultLocale: "en"},
		Frontend:    config.FrontendConfig{AllowedOrigins: []string{"*"}},
	}
}

func testProducts() map[string][]models.Product {
	return map[string][]models.Product{
		"laptops": {
			{ID: 1, Title: "A", Description: "Thin laptop", Price: 100, Rating: 4.5},
		},
		"smartphones": {
			{ID: 2, Title: "B", Description: "Small phone", Price: 50, Rating: 4.1},
		},
	}
}

func buildRouter(cfg *config.Config, source services.CatalogSource, scheduler services.Scheduler, geocoder handlers.ReverseGeocoder, load bool) *gin.Engine {
	catalog := services.NewCatalogService(source, []string{"laptops", "smartphones"})
	if load {
		if err := catalog.Load(context.Background()); err != nil {
			panic(err)
		}
	}

	storage, _ := services.NewStorageService(config.AWSConfig{})
	notifications := services.NewNotificationService()
	settings := services.StorefrontSettings{
		Multiplier:      decimal.RequireFromString("5.5"),
		MerchantName:    "TechStore",
		CurrencySymbol:  "R$",
		SettlementDelay: 3 * time.Second,
		SeedOrders:      true,
	}
	deps := services.StorefrontDeps{
		Catalog:   catalog,
		Payments:  services.NewPaymentService(storage),
		Scheduler: scheduler,
		Notifier:  notifications,
		Settings:  settings,
	}

	return Initialize(cfg, Services{
		Catalog:       catalog,
		Sessions:      services.NewSessionService(deps, notifications, time.Hour),
		Notifications: notifications,
		Geocoder:      geocoder,
		Settings:      settings,
	})
}

func (suite *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	require.NoError(suite.T(), i18n.Initialize("en"))
}

func (suite *RouterTestSuite) SetupTest() {
	suite.scheduler = &manualScheduler{}
	suite.geocoder = &stubGeocoder{address: "Rua dos Andradas 1001 - Centro Histórico - Porto Alegre, Rio Grande do Sul - Brasil"}
	suite.router = buildRouter(testConfig(), &stubSource{products: testProducts()}, suite.scheduler, suite.geocoder, true)
}

func (suite *RouterTestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(suite.T(), err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(suite.T(), err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RouterTestSuite) decode(w *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(suite.T(), json.Unmarshal(env.Data, data))
	}
	return env
}

func (suite *RouterTestSuite) newSession() string {
	w := suite.do(http.MethodPost, "/v1/sessions", "", nil)
	require.Equal(suite.T(), http.StatusCreated, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	suite.decode(w, &data)
	require.NotEmpty(suite.T(), data.Token)
	return data.Token
}

func (suite *RouterTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Contains(suite.T(), w.Body.String(), `"catalog_loaded":true`)
}

func (suite *RouterTestSuite) TestSessionRequired() {
	w := suite.do(http.MethodGet, "/v1/cart", "", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/v1/cart", "not-a-token", nil)
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
	env := suite.decode(w, nil)
	assert.False(suite.T(), env.Success)
	assert.Equal(suite.T(), "UNAUTHORIZED", env.Error.Code)
}

func (suite *RouterTestSuite) TestCatalogFiltering() {
	token := suite.newSession()

	var catalog struct {
		Category string `json:"category"`
		Products []struct {
			ID           int    `json:"id"`
			DisplayPrice string `json:"display_price"`
		} `json:"products"`
		Stats struct {
			Count        int    `json:"count"`
			AveragePrice string `json:"average_price"`
		} `json:"stats"`
	}

	w := suite.do(http.MethodGet, "/v1/catalog", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &catalog)
	assert.Equal(suite.T(), "all", catalog.Category)
	require.Len(suite.T(), catalog.Products, 2)
	assert.Equal(suite.T(), "550.00", catalog.Products[0].DisplayPrice)
	assert.Equal(suite.T(), "412.50", catalog.Stats.AveragePrice)

	w = suite.do(http.MethodPut, "/v1/filters", token, map[string]string{"category": "laptops"})
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &catalog)
	require.Len(suite.T(), catalog.Products, 1)
	assert.Equal(suite.T(), 1, catalog.Products[0].ID)

	w = suite.do(http.MethodPut, "/v1/filters", token, map[string]string{"category": "all", "query": "PHONE"})
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &catalog)
	require.Len(suite.T(), catalog.Products, 1)
	assert.Equal(suite.T(), 2, catalog.Products[0].ID)

	w = suite.do(http.MethodPut, "/v1/filters", token, map[string]string{"query": "zzz"})
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &catalog)
	assert.Empty(suite.T(), catalog.Products)
	assert.Equal(suite.T(), 0, catalog.Stats.Count)
	assert.Equal(suite.T(), "0.00", catalog.Stats.AveragePrice)
}

func (suite *RouterTestSuite) TestFilterValidation() {
	token := suite.newSession()

	w := suite.do(http.MethodPut, "/v1/filters", token, map[string]string{"query": "bad\x00query"})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	env := suite.decode(w, nil)
	assert.Equal(suite.T(), "VALIDATION_ERROR", env.Error.Code)
}

func (suite *RouterTestSuite) TestCheckoutSettlesIntoOrder() {
	token := suite.newSession()

	require.Equal(suite.T(), http.StatusCreated, suite.do(http.MethodPost, "/v1/cart/items", token, map[string]int{"product_id": 1}).Code)
	require.Equal(suite.T(), http.StatusCreated, suite.do(http.MethodPost, "/v1/cart/items", token, map[string]int{"product_id": 2}).Code)

	var cart struct {
		Count int    `json:"count"`
		Total string `json:"total"`
	}
	suite.decode(suite.do(http.MethodGet, "/v1/cart", token, nil), &cart)
	assert.Equal(suite.T(), 2, cart.Count)
	assert.Equal(suite.T(), "825.00", cart.Total)

	var checkout struct {
		State   models.CheckoutState `json:"state"`
		Total   string               `json:"total"`
		Payload string               `json:"payload"`
		OrderID int                  `json:"order_id"`
	}
	w := suite.do(http.MethodPost, "/v1/checkout", token, nil)
	require.Equal(suite.T(), http.StatusCreated, w.Code)
	suite.decode(w, &checkout)
	assert.Equal(suite.T(), models.CheckoutStateAwaitingPayment, checkout.State)
	assert.Equal(suite.T(), "825.00", checkout.Total)
	assert.Contains(suite.T(), checkout.Payload, "PIX:825.00:TechStore:")

	// The cart is frozen until payment settles.
	w = suite.do(http.MethodPost, "/v1/cart/items", token, map[string]int{"product_id": 1})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	w = suite.do(http.MethodGet, "/v1/checkout/qrcode.png", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	assert.Equal(suite.T(), "image/png", w.Header().Get("Content-Type"))
	assert.NotEmpty(suite.T(), w.Body.Bytes())

	suite.scheduler.Flush()

	suite.decode(suite.do(http.MethodGet, "/v1/checkout", token, nil), &checkout)
	assert.Equal(suite.T(), models.CheckoutStateSettled, checkout.State)
	assert.Equal(suite.T(), 1004, checkout.OrderID)

	var orders []struct {
		ID     int                `json:"id"`
		Items  int                `json:"items"`
		Total  string             `json:"total"`
		Status models.OrderStatus `json:"status"`
	}
	suite.decode(suite.do(http.MethodGet, "/v1/orders", token, nil), &orders)
	require.Len(suite.T(), orders, 4)
	assert.Equal(suite.T(), 1004, orders[0].ID)
	assert.Equal(suite.T(), 2, orders[0].Items)
	assert.Equal(suite.T(), "825.00", orders[0].Total)
	assert.Equal(suite.T(), models.OrderStatusProcessing, orders[0].Status)

	suite.decode(suite.do(http.MethodGet, "/v1/cart", token, nil), &cart)
	assert.Equal(suite.T(), 0, cart.Count)
	assert.Equal(suite.T(), "0.00", cart.Total)

	var notifications []struct {
		Key     string `json:"key"`
		Message string `json:"message"`
	}
	suite.decode(suite.do(http.MethodGet, "/v1/notifications", token, nil), &notifications)
	require.NotEmpty(suite.T(), notifications)
	last := notifications[len(notifications)-1]
	assert.Equal(suite.T(), i18n.KeyOrderPlaced, last.Key)
	assert.Equal(suite.T(), "✅ Order placed successfully!", last.Message)

	suite.decode(suite.do(http.MethodGet, "/v1/notifications", token, nil), &notifications)
	assert.Empty(suite.T(), notifications)
}

func (suite *RouterTestSuite) TestEmptyCheckoutIsIgnored() {
	token := suite.newSession()

	w := suite.do(http.MethodPost, "/v1/checkout", token, nil)
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, "/v1/checkout", token, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *RouterTestSuite) TestCancelCheckoutKeepsCart() {
	token := suite.newSession()
	require.Equal(suite.T(), http.StatusCreated, suite.do(http.MethodPost, "/v1/cart/items", token, map[string]int{"product_id": 1}).Code)
	require.Equal(suite.T(), http.StatusCreated, suite.do(http.MethodPost, "/v1/checkout", token, nil).Code)

	w := suite.do(http.MethodDelete, "/v1/checkout", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	suite.scheduler.Flush()

	var orders []struct {
		ID int `json:"id"`
	}
	suite.decode(suite.do(http.MethodGet, "/v1/orders", token, nil), &orders)
	assert.Len(suite.T(), orders, 3)

	var cart struct {
		Count  int  `json:"count"`
		Locked bool `json:"locked"`
	}
	suite.decode(suite.do(http.MethodGet, "/v1/cart", token, nil), &cart)
	assert.Equal(suite.T(), 1, cart.Count)
	assert.False(suite.T(), cart.Locked)

	w = suite.do(http.MethodDelete, "/v1/checkout", token, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *RouterTestSuite) TestRemoveOutOfRangeIsNoop() {
	token := suite.newSession()
	require.Equal(suite.T(), http.StatusCreated, suite.do(http.MethodPost, "/v1/cart/items", token, map[string]int{"product_id": 1}).Code)

	var cart struct {
		Count int `json:"count"`
	}
	w := suite.do(http.MethodDelete, "/v1/cart/items/5", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &cart)
	assert.Equal(suite.T(), 1, cart.Count)

	w = suite.do(http.MethodDelete, "/v1/cart/items/0", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &cart)
	assert.Equal(suite.T(), 0, cart.Count)
}

func (suite *RouterTestSuite) TestUnknownProduct() {
	token := suite.newSession()

	w := suite.do(http.MethodPost, "/v1/cart/items", token, map[string]int{"product_id": 999})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/v1/products/999", "", nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/v1/products/1", "", nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.do(http.MethodPost, "/v1/cart/items", token, map[string]int{})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RouterTestSuite) TestOrderDetail() {
	token := suite.newSession()

	var order struct {
		ID          int    `json:"id"`
		StatusColor string `json:"status_color"`
	}
	w := suite.do(http.MethodGet, "/v1/orders/1001", token, nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &order)
	assert.Equal(suite.T(), 1001, order.ID)
	assert.Equal(suite.T(), "#10b981", order.StatusColor)

	w = suite.do(http.MethodGet, "/v1/orders/42", token, nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *RouterTestSuite) TestLocation() {
	var location struct {
		Latitude float64 `json:"latitude"`
		Address  string  `json:"address"`
		Resolved bool    `json:"resolved"`
	}

	w := suite.do(http.MethodGet, "/v1/location", "", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &location)
	assert.True(suite.T(), location.Resolved)
	assert.Equal(suite.T(), -30.0346, location.Latitude)
	assert.Equal(suite.T(), suite.geocoder.address, location.Address)

	suite.geocoder.err = errors.New("upstream down")
	w = suite.do(http.MethodGet, "/v1/location?lat=-23.5505&lng=-46.6333", "", nil)
	require.Equal(suite.T(), http.StatusOK, w.Code)
	suite.decode(w, &location)
	assert.False(suite.T(), location.Resolved)
	assert.Equal(suite.T(), "-23.5505, -46.6333", location.Address)

	w = suite.do(http.MethodGet, "/v1/location?lat=abc&lng=1", "", nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	for _, query := range []string{"lat=NaN&lng=NaN", "lat=1&lng=Inf", "lat=-Inf&lng=1", "lat=91&lng=1"} {
		w = suite.do(http.MethodGet, "/v1/location?"+query, "", nil)
		assert.Equal(suite.T(), http.StatusBadRequest, w.Code, query)
		env := suite.decode(w, nil)
		assert.Equal(suite.T(), "BAD_REQUEST", env.Error.Code, query)
	}
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func TestCatalogReloadAfterFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("en"))

	source := &stubSource{products: testProducts(), err: errors.New("dns failure")}
	r := buildRouter(testConfig(), source, &manualScheduler{}, &stubGeocoder{}, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/catalog/reload", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)

	source.err = nil
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/catalog/reload", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"products":2`)
}

func TestCatalogReloadIsRateLimited(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, i18n.Initialize("en"))

	cfg := testConfig()
	cfg.Server.RateLimit = true
	source := &stubSource{err: errors.New("dns failure")}
	r := buildRouter(cfg, source, &manualScheduler{}, &stubGeocoder{}, false)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/catalog/reload", nil)
		req.RemoteAddr = "198.51.100.7:4000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusBadGateway, http.StatusBadGateway, http.StatusTooManyRequests}, codes)
}
