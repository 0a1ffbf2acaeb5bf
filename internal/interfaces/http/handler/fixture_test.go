package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	customerapp "github.com/storefront/backend/internal/application/customer"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	notificationapp "github.com/storefront/backend/internal/application/notification"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

const (
	testUserHeader = "X-Test-User"
	testRoleHeader = "X-Test-Role"
)

// apiFixture serves the handlers over real services and an in-memory sqlite
// store. Requests carry the actor in test headers instead of a bearer token.
type apiFixture struct {
	t         *testing.T
	db        *gorm.DB
	engine    *gin.Engine
	inventory *persistence.GormInventoryRepository
	customer  order.Actor
	admin     order.Actor
}

func newAPIFixture(t *testing.T) *apiFixture {
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

	store := cache.NewInMemoryIdempotencyStore(time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.NewIdempotentHandler(
		notificationapp.NewPurchaseNotificationHandler(notifier, log), store, shared.DefaultIdempotencyConfig(), log))

	checkout := orderapp.NewCheckoutService(productRepo, inventoryRepo, customers, persistence.NewGormTransactionScope(db), log)
	checkout.SetEventPublisher(bus)
	orders := orderapp.NewOrderService(persistence.NewGormPurchaseRepository(db), customers,
		orderapp.NewCompensationRunner(inventoryRepo, nil, log), log)
	orders.SetEventPublisher(bus)

	f := &apiFixture{
		t:         t,
		db:        db,
		inventory: inventoryRepo,
		customer:  order.NewCustomerActor(uuid.New()),
		admin:     order.NewAdminActor(uuid.New()),
	}
	f.engine = f.newEngine(
		NewOrderHandler(checkout, orders),
		NewAdminOrderHandler(orders),
		NewCustomerHandler(customers),
		NewNotificationHandler(notifier),
		NewInventoryHandler(inventoryapp.NewInventoryService(inventoryRepo, productRepo, log)),
	)
	return f
}

func (f *apiFixture) newEngine(o *OrderHandler, a *AdminOrderHandler, c *CustomerHandler, n *NotificationHandler, i *InventoryHandler) *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID(), func(ctx *gin.Context) {
		if id := ctx.GetHeader(testUserHeader); id != "" {
			middleware.SetActor(ctx, order.Actor{
				UserID: uuid.MustParse(id),
				Role:   order.Role(ctx.GetHeader(testRoleHeader)),
			})
		}
	})

	engine.POST("/checkout", o.Checkout)
	engine.GET("/orders", o.List)
	engine.GET("/orders/:id", o.Get)
	engine.POST("/orders/:id/cancel", o.Cancel)
	engine.GET("/profile", c.GetProfile)
	engine.PUT("/profile", c.UpdateProfile)
	engine.GET("/addresses", c.ListAddresses)
	engine.POST("/addresses", c.CreateAddress)
	engine.PUT("/addresses/:id", c.UpdateAddress)
	engine.DELETE("/addresses/:id", c.DeleteAddress)
	engine.POST("/addresses/:id/default", c.SetDefaultAddress)
	engine.GET("/notifications", n.List)
	engine.GET("/notifications/unread-count", n.UnreadCount)
	engine.POST("/notifications/:id/read", n.MarkRead)
	engine.POST("/notifications/read-all", n.MarkAllRead)
	engine.GET("/admin/orders", a.Queue)
	engine.GET("/admin/orders/counts", a.Counts)
	engine.POST("/admin/orders/:id/transitions", a.Transition)
	engine.GET("/admin/inventory/:product_id", i.GetStock)
	engine.PUT("/admin/inventory/:product_id", i.SetStock)
	return engine
}

// envelope is dto.Response with a typed payload
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

// call performs a request as actor (nil for anonymous) and decodes the reply
func call[T any](f *apiFixture, actor *order.Actor, method, path string, body any) (int, envelope[T]) {
	f.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actor != nil {
		req.Header.Set(testUserHeader, actor.UserID.String())
		req.Header.Set(testRoleHeader, string(actor.Role))
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope[T]
	if w.Body.Len() > 0 {
		require.NoError(f.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func (f *apiFixture) seedProduct(id, stock int64, price string) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&models.ProductModel{
		BaseModel: models.BaseModel{ID: id},
		Name:      fmt.Sprintf("Product %d", id),
		Price:     decimal.RequireFromString(price),
		Status:    "active",
	}).Error)
	record, err := inventory.NewInventoryRecord(id, stock)
	require.NoError(f.t, err)
	require.NoError(f.t, f.inventory.Save(context.Background(), record))
}

func (f *apiFixture) stock(productID int64) int64 {
	f.t.Helper()
	record, err := f.inventory.FindByProductID(context.Background(), productID)
	require.NoError(f.t, err)
	return record.Quantity
}

// completeCustomer fills the customer's profile and adds a default address
func (f *apiFixture) completeCustomer() {
	f.t.Helper()
	code, _ := call[any](f, &f.customer, http.MethodPut, "/profile", map[string]string{
		"first_name": "Maria", "last_name": "Santos", "phone": "09181234567",
	})
	require.Equal(f.t, http.StatusOK, code)
	code, _ = call[any](f, &f.customer, http.MethodPost, "/addresses", map[string]any{
		"street": "45 Rizal Ave", "city": "Manila",
	})
	require.Equal(f.t, http.StatusCreated, code)
}

// placeOrder checks out qty units of productID for the customer
func (f *apiFixture) placeOrder(productID, qty int64) orderapp.PurchaseResponse {
	f.t.Helper()
	code, env := call[orderapp.CheckoutResult](f, &f.customer, http.MethodPost, "/checkout", map[string]any{
		"items": []map[string]int64{{"product_id": productID, "quantity": qty}},
	})
	require.Equal(f.t, http.StatusCreated, code, env.Error)
	return env.Data.Purchase
}
