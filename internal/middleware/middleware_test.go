package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/service-marketplace/internal/config"
)

func newContext(e *echo.Echo, method, target, route string) echo.Context {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(route)
	return c
}

func TestCacheKeyDistinguishesQueryAndParams(t *testing.T) {
	e := echo.New()
	// sizes the context param buffers
	e.GET("/users/:id", func(c echo.Context) error { return nil })
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := newContext(e, http.MethodGet, "/services/search?q=clean", "/services/search")
	b := newContext(e, http.MethodGet, "/services/search?q=plumb", "/services/search")
	a2 := newContext(e, http.MethodGet, "/services/search?q=clean", "/services/search")
	assert.NotEqual(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))
	assert.Equal(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, a2))
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, cacheKeyFrom(cfg, a))

	u1 := newContext(e, http.MethodGet, "/users/user-1", "/users/:id")
	u1.SetParamNames("id")
	u1.SetParamValues("user-1")
	u2 := newContext(e, http.MethodGet, "/users/user-2", "/users/:id")
	u2.SetParamNames("id")
	u2.SetParamValues("user-2")
	assert.NotEqual(t, cacheKeyFrom(cfg, u1), cacheKeyFrom(cfg, u2))
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok, "header length past end")
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	called := 0
	h := func(c echo.Context) error { called++; return c.NoContent(http.StatusNoContent) }

	mws := []echo.MiddlewareFunc{
		NewRedisCache(config.CacheConfig{Enabled: true}, nil),
		InvalidateOnWrite(config.CacheConfig{Enabled: true}, nil, zap.NewNop()),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, zap.NewNop()),
	}
	for _, mw := range mws {
		c := newContext(e, http.MethodGet, "/health", "/health")
		require.NoError(t, mw(h)(c))
	}
	assert.Equal(t, 3, called)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	c := newContext(e, http.MethodPost, "/bookings", "/bookings")
	cfg := config.RateLimitConfig{Prefix: "rl"}

	assert.Equal(t, "rl:ip:10.0.0.1:user:guest:route:POST /bookings", buildRateKey(cfg, c))

	c.Request().Header.Set(UserIDHeader, "user-7")
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:user-7", buildRateKey(cfg, c))
	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(cfg, c))
}

func TestRetryAfterRoundsUp(t *testing.T) {
	assert.Equal(t, 0, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(1))
	assert.Equal(t, 2, retryAfterSeconds(1001))
	assert.Equal(t, 0, retryAfterSeconds(-50))
}

func TestRequestLoggerWritesAccessLine(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/health", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(UserIDHeader, "user-1")
	e.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/health", fields["uri"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "user-1", fields["user_id"])
}
