package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VINAY-SANDA/CareTriage/internal/interfaces/stubserver/middlewares"
)

func newRouter(handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares.RequestID())
	r.Use(middlewares.CORS())
	r.GET("/ping", handler)
	return r
}

func TestRequestIDGeneratedWhenMissing(t *testing.T) {
	var seen string
	router := newRouter(func(c *gin.Context) {
		seen = middlewares.GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, w.Header().Get(middlewares.RequestIDHeader))
}

func TestRequestIDPropagatedWhenPresent(t *testing.T) {
	var seen string
	router := newRouter(func(c *gin.Context) {
		seen = middlewares.GetRequestID(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middlewares.RequestIDHeader, "caller-chosen-id")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "caller-chosen-id", seen)
	assert.Equal(t, "caller-chosen-id", w.Header().Get(middlewares.RequestIDHeader))
}

func TestCORSShortCircuitsPreflight(t *testing.T) {
	router := newRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/ping", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORSHeadersOnPlainRequests(t *testing.T) {
	router := newRouter(func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, middlewares.RequestIDHeader, w.Header().Get("Access-Control-Expose-Headers"))
}
