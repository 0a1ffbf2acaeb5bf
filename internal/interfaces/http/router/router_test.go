package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_VersionPrefix(t *testing.T) {
	tests := []struct {
		name string
		opts []RouterOption
		path string
	}{
		{"default version", nil, "/api/v1/orders/ping"},
		{"explicit version", []RouterOption{WithAPIVersion("v2")}, "/api/v2/orders/ping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			NewRouter(engine, tt.opts...).
				Register(NewDomainGroup("orders", "/orders").GET("/ping", func(c *gin.Context) {
					c.String(http.StatusOK, "pong")
				})).
				Setup()

			w := serve(engine, http.MethodGet, tt.path)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "pong", w.Body.String())
		})
	}
}

func TestDomainGroup_Methods(t *testing.T) {
	reply := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
	g := NewDomainGroup("addresses", "/addresses").
		GET("", reply).
		POST("", reply).
		PUT("/:id", reply).
		DELETE("/:id", reply)
	assert.Equal(t, "addresses", g.Name())
	assert.Equal(t, "/addresses", g.Prefix())

	engine := gin.New()
	NewRouter(engine).Register(g).Setup()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/addresses"},
		{http.MethodPost, "/api/v1/addresses"},
		{http.MethodPut, "/api/v1/addresses/7"},
		{http.MethodDelete, "/api/v1/addresses/7"},
	}
	for _, tt := range tests {
		w := serve(engine, tt.method, tt.path)
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", tt.method, tt.path)
		assert.Equal(t, tt.method, w.Body.String())
	}
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/addresses/7/extra").Code)
}

func TestDomainGroup_MiddlewareStaysInGroup(t *testing.T) {
	guard := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusForbidden)
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	engine := gin.New()
	NewRouter(engine).Register(
		NewDomainGroup("storefront", "").GET("/orders", ok),
		NewDomainGroup("admin", "/admin").Use(guard).GET("/orders", ok),
	).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/orders").Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/admin/orders").Code)
}

func TestDomainGroup_MiddlewareOrder(t *testing.T) {
	var calls []string
	step := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			calls = append(calls, name)
			c.Next()
		}
	}

	engine := gin.New()
	NewRouter(engine).Register(
		NewDomainGroup("admin", "/admin").
			Use(step("authenticate")).
			Use(step("require_admin")).
			GET("/orders", func(c *gin.Context) {
				calls = append(calls, "handler")
				c.Status(http.StatusOK)
			}),
	).Setup()

	serve(engine, http.MethodGet, "/api/v1/admin/orders")
	assert.Equal(t, []string{"authenticate", "require_admin", "handler"}, calls)
}
