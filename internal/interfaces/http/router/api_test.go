package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "github.com/storefront/backend/docs"
	customerapp "github.com/storefront/backend/internal/application/customer"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	notificationapp "github.com/storefront/backend/internal/application/notification"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

type apiServer struct {
	t         *testing.T
	engine    *gin.Engine
	validator *auth.TokenValidator
	db        *gorm.DB
}

func newAPIServer(t *testing.T, mutate func(*Options)) *apiServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	inventoryRepo := persistence.NewGormInventoryRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	customers := customerapp.NewAddressResolver(
		persistence.NewGormProfileRepository(db), persistence.NewGormAddressRepository(db), log)
	notifier := notificationapp.NewNotifier(persistence.NewGormNotificationRepository(db), log)
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(notificationapp.NewPurchaseNotificationHandler(notifier, log))

	checkout := orderapp.NewCheckoutService(productRepo, inventoryRepo, customers, persistence.NewGormTransactionScope(db), log)
	checkout.SetEventPublisher(bus)
	orders := orderapp.NewOrderService(persistence.NewGormPurchaseRepository(db), customers,
		orderapp.NewCompensationRunner(inventoryRepo, nil, log), log)
	orders.SetEventPublisher(bus)

	validator := auth.NewTokenValidator(config.JWTConfig{
		Secret:    "router-test-secret-key-long-enough",
		Issuer:    "storefront-test",
		AdminRole: "admin",
	})
	opts := Options{
		ServiceName:      "storefront-test",
		Validator:        validator,
		Logger:           log,
		CORSAllowOrigins: []string{"*"},
		MaxBodyBytes:     1 << 16,
	}
	if mutate != nil {
		mutate(&opts)
	}

	engine := NewEngine(opts, Handlers{
		Orders:        handler.NewOrderHandler(checkout, orders),
		AdminOrders:   handler.NewAdminOrderHandler(orders),
		Customers:     handler.NewCustomerHandler(customers),
		Notifications: handler.NewNotificationHandler(notifier),
		Inventory:     handler.NewInventoryHandler(inventoryapp.NewInventoryService(inventoryRepo, productRepo, log)),
		System:        handler.NewSystemHandler("test", sqlDB),
	})
	return &apiServer{t: t, engine: engine, validator: validator, db: db}
}

func (s *apiServer) token(userID uuid.UUID, role string) string {
	s.t.Helper()
	token, err := s.validator.Sign(userID, role, time.Hour)
	require.NoError(s.t, err)
	return token
}

func (s *apiServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	errInfo, ok := body["error"].(map[string]any)
	require.True(t, ok, w.Body.String())
	return errInfo["code"].(string)
}

func TestEngine_Health(t *testing.T) {
	s := newAPIServer(t, nil)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := s.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		data := decode(t, w)["data"].(map[string]any)
		assert.Equal(t, "ok", data["database"])
	}
}

func TestEngine_Swagger(t *testing.T) {
	t.Run("serves the registered document", func(t *testing.T) {
		s := newAPIServer(t, func(o *Options) { o.Swagger = true })
		w := s.do(http.MethodGet, "/swagger/doc.json", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		doc := decode(t, w)
		assert.Equal(t, "/api/v1", doc["basePath"])
		paths := doc["paths"].(map[string]any)
		for _, path := range []string{"/checkout", "/orders/{id}/cancel", "/admin/orders/{id}/transitions", "/notifications/read-all"} {
			assert.Contains(t, paths, path)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		s := newAPIServer(t, nil)
		w := s.do(http.MethodGet, "/swagger/doc.json", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestEngine_Authentication(t *testing.T) {
	s := newAPIServer(t, nil)
	customer := s.token(uuid.New(), "customer")
	admin := s.token(uuid.New(), "admin")

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{"no token", http.MethodGet, "/api/v1/orders", "", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"garbage token", http.MethodGet, "/api/v1/orders", "not-a-jwt", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"customer on admin queue", http.MethodGet, "/api/v1/admin/orders", customer, http.StatusForbidden, "FORBIDDEN"},
		{"admin stock of unknown product", http.MethodGet, "/api/v1/admin/inventory/9", admin, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, w))
		})
	}

	w := s.do(http.MethodGet, "/api/v1/orders", customer, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/v1/admin/orders/counts", admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEngine_OrderFlow(t *testing.T) {
	s := newAPIServer(t, nil)
	customer := s.token(uuid.New(), "customer")
	admin := s.token(uuid.New(), "admin")

	require.NoError(t, s.db.Create(&models.ProductModel{
		BaseModel: models.BaseModel{ID: 1},
		Name:      "Rice Cooker",
		Price:     decimal.RequireFromString("1499.00"),
		Status:    "active",
	}).Error)
	record, err := inventory.NewInventoryRecord(1, 3)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormInventoryRepository(s.db).Save(context.Background(), record))

	require.Equal(t, http.StatusOK, s.do(http.MethodPut, "/api/v1/profile", customer, map[string]string{
		"first_name": "Jose", "last_name": "Rizal", "phone": "0917",
	}).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/addresses", customer, map[string]string{
		"street": "1 Calamba", "city": "Laguna",
	}).Code)

	w := s.do(http.MethodPost, "/api/v1/checkout", customer, map[string]any{
		"items": []map[string]int64{{"product_id": 1, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	purchase := decode(t, w)["data"].(map[string]any)["purchase"].(map[string]any)
	id := int64(purchase["id"].(float64))

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/orders/%d/transitions", id), admin, map[string]string{"event": "approve"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "processing", decode(t, w)["data"].(map[string]any)["status"])

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/cancel", id), customer, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", errorCode(t, w))

	w = s.do(http.MethodGet, "/api/v1/admin/inventory/1", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["data"].(map[string]any)["quantity"])

	w = s.do(http.MethodGet, "/api/v1/notifications/unread-count", customer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["data"].(map[string]any)["count"])
}

func TestEngine_RateLimit(t *testing.T) {
	s := newAPIServer(t, func(o *Options) {
		o.RateLimiter = middleware.NewRateLimiter(2, time.Minute)
	})
	customer := s.token(uuid.New(), "customer")

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/v1/orders", customer, nil).Code)
	}
	w := s.do(http.MethodGet, "/api/v1/orders", customer, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RATE_LIMITED", errorCode(t, w))

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/health", "", nil).Code, "health is not limited")
}

func TestEngine_BodyLimit(t *testing.T) {
	s := newAPIServer(t, func(o *Options) { o.MaxBodyBytes = 64 })
	customer := s.token(uuid.New(), "customer")

	body := `{"first_name":"` + strings.Repeat("a", 100) + `","last_name":"b","phone":"1"}`
	w := s.do(http.MethodPut, "/api/v1/profile", customer, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "REQUEST_TOO_LARGE", errorCode(t, w))
}

func TestEngine_CORSPreflight(t *testing.T) {
	s := newAPIServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
