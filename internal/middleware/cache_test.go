package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitravel/tour-booking-api/internal/config"
)

func browseCtx(target, routePattern string, header map[string]string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(routePattern)
	return c
}

func TestCacheKeySeparatesPathParams(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	// Two different tours matched by the same route pattern must never
	// share an entry.
	k1 := cacheKeyFrom(cfg, browseCtx("/v1/tours/1", "/v1/tours/:id", nil))
	k2 := cacheKeyFrom(cfg, browseCtx("/v1/tours/2", "/v1/tours/:id", nil))
	assert.NotEqual(t, k1, k2)

	// Same for the remaining-slots query of two dates.
	s1 := cacheKeyFrom(cfg, browseCtx("/v1/tour-dates/7/slots", "/v1/tour-dates/:id/slots", nil))
	s2 := cacheKeyFrom(cfg, browseCtx("/v1/tour-dates/8/slots", "/v1/tour-dates/:id/slots", nil))
	assert.NotEqual(t, s1, s2)
}

func TestCacheKeyStableAndQuerySensitive(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, browseCtx("/v1/tours?page=1", "/v1/tours", nil))
	b := cacheKeyFrom(cfg, browseCtx("/v1/tours?page=1", "/v1/tours", nil))
	c := cacheKeyFrom(cfg, browseCtx("/v1/tours?page=2", "/v1/tours", nil))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestCacheBypassesAuthorizedRequests(t *testing.T) {
	cfg := config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{"GET": true},
		TTL:         30 * time.Second,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
	// The client is never touched: the bypass happens before any lookup.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})

	called := false
	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "personal")
	})

	c := browseCtx("/v1/bookings", "/v1/bookings", map[string]string{
		"Authorization": "Bearer some-token",
	})
	require.NoError(t, h(c))
	assert.True(t, called)
	assert.Empty(t, c.Response().Header().Get("X-Cache"))
}
