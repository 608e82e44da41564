package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SergeiKhy/shortly/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newProtectedRouter(mw gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

// TestAPIKey_MissingKey проверяет отклонение запроса без API ключа
func TestAPIKey_MissingKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newProtectedRouter(middleware.RequireAPIKey(map[string]string{
		"secret-key": "test client",
	}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAPIKey_InvalidKey проверяет отклонение невалидного ключа
func TestAPIKey_InvalidKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newProtectedRouter(middleware.RequireAPIKey(map[string]string{
		"secret-key": "test client",
	}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("X-API-Key", "wrong-key")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestAPIKey_ValidKey проверяет пропуск запроса с валидным ключом
func TestAPIKey_ValidKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newProtectedRouter(middleware.RequireAPIKey(map[string]string{
		"secret-key": "test client",
	}))

	// Ключ принимается через заголовок, query параметр и Bearer схему
	cases := []func(req *http.Request){
		func(req *http.Request) { req.Header.Set("X-API-Key", "secret-key") },
		func(req *http.Request) { req.URL.RawQuery = "api_key=secret-key" },
		func(req *http.Request) { req.Header.Set("Authorization", "Bearer secret-key") },
	}

	for _, setKey := range cases {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		setKey(req)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	}
}

// TestAPIKey_Optional проверяет опциональный режим: запрос без ключа проходит
func TestAPIKey_Optional(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := newProtectedRouter(middleware.OptionalAPIKey(map[string]string{
		"secret-key": "test client",
	}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
