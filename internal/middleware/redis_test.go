package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/service-marketplace/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:     true,
		Methods:     map[string]bool{http.MethodGet: true},
		TTL:         time.Minute,
		KeyStrategy: "route_query",
		Prefix:      "cache",
	}
}

func TestRedisCacheMissThenHit(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := cacheConfig()

	e := echo.New()
	calls := 0
	e.GET("/services", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": calls})
	}, NewRedisCache(cfg, rdb))

	first := serve(e, http.MethodGet, "/services")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Len(t, mr.Keys(), 1)

	second := serve(e, http.MethodGet, "/services")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, second.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)

	other := serve(e, http.MethodGet, "/services?page=2")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestRedisCacheSkipsErrorResponses(t *testing.T) {
	mr, rdb := newRedis(t)
	e := echo.New()
	e.GET("/services/:id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	}, NewRedisCache(cacheConfig(), rdb))

	rec := serve(e, http.MethodGet, "/services/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, mr.Keys())
}

func TestInvalidateOnWritePurgesPrefix(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := cacheConfig()
	require.NoError(t, mr.Set("unrelated", "keep"))

	e := echo.New()
	calls := 0
	e.Use(InvalidateOnWrite(cfg, rdb, zap.NewNop()))
	e.GET("/notifications", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"calls": calls})
	}, NewRedisCache(cfg, rdb))
	e.POST("/notifications/read-all", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.POST("/bookings", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bad request"})
	})

	serve(e, http.MethodGet, "/notifications")
	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/notifications").Header().Get("X-Cache"))

	// failed writes leave the cache alone
	serve(e, http.MethodPost, "/bookings")
	assert.Equal(t, "HIT", serve(e, http.MethodGet, "/notifications").Header().Get("X-Cache"))

	serve(e, http.MethodPost, "/notifications/read-all")
	assert.Equal(t, []string{"unrelated"}, mr.Keys())
	assert.Equal(t, "MISS", serve(e, http.MethodGet, "/notifications").Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestPurgeCacheCountsRemovedKeys(t *testing.T) {
	mr, rdb := newRedis(t)
	for _, k := range []string{"cache:a", "cache:b", "cache:c", "rl:ip:10.0.0.1"} {
		require.NoError(t, mr.Set(k, "x"))
	}

	n, err := PurgeCache(context.Background(), rdb, "cache")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"rl:ip:10.0.0.1"}, mr.Keys())

	n, err = PurgeCache(context.Background(), rdb, "cache")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestTokenBucketRejectsWhenEmpty(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}

	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb, zap.NewNop()))
	e.GET("/services", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	first := serve(e, http.MethodGet, "/services")
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusNoContent, serve(e, http.MethodGet, "/services").Code)

	blocked := serve(e, http.MethodGet, "/services")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
}
