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

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("billing", "/billing")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/billing/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	called := false
	r.Use(func(c *gin.Context) {
		called = true
		c.Next()
	})

	group := NewDomainGroup("billing", "/billing")
	group.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.Register(group)
	r.Setup()

	req := httptest.NewRequest("GET", "/api/v1/billing/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("billing", "/billing")
		assert.Equal(t, "billing", g.Name())
		assert.Equal(t, "/billing", g.Prefix())
	})

	t.Run("registers routes for each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("billing", "/billing")
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		g.GET("/quotes", ok)
		g.POST("/quotes", ok)
		g.PUT("/quotes/:id", ok)
		g.DELETE("/quotes/:id", ok)

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		for _, tc := range []struct{ method, path string }{
			{"GET", "/api/v1/billing/quotes"},
			{"POST", "/api/v1/billing/quotes"},
			{"PUT", "/api/v1/billing/quotes/123"},
			{"DELETE", "/api/v1/billing/quotes/123"},
		} {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("billing", "/billing")
		g.Use(func(c *gin.Context) {
			c.Header("X-Scope", "billing")
			c.Next()
		})
		g.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/billing/ping", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "billing", w.Header().Get("X-Scope"))
	})

	t.Run("registers subgroups recursively", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("billing", "/billing")
		sub := g.Group("ledger", "/invoices/:id")
		sub.GET("/payments", func(c *gin.Context) { c.Status(http.StatusOK) })

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/billing/invoices/abc/payments", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
