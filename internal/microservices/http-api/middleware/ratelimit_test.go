package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limitedRouter(rdb *redis.Client, limit int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router.POST("/auth/code", RateLimit(rdb, "auth_code", limit, time.Minute, logger), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func post(router http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/auth/code", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	router := limitedRouter(rdb, 2)

	assert.Equal(t, http.StatusOK, post(router, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, post(router, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, post(router, "10.0.0.1:1234"))

	// separate budget per client
	assert.Equal(t, http.StatusOK, post(router, "10.0.0.2:1234"))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, post(router, "10.0.0.1:1234"))
}

func TestRateLimitSetsExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	allowed, err := CheckRateLimit(t.Context(), rdb, "auth_code", "ip:1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL("rl:auth_code:ip:1.2.3.4"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	router := limitedRouter(rdb, 1)
	mr.Close()

	assert.Equal(t, http.StatusOK, post(router, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, post(router, "10.0.0.1:1234"))
}

func TestRateLimitDisabled(t *testing.T) {
	router := limitedRouter(nil, 0)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, post(router, "10.0.0.1:1234"))
	}
}

func TestRateLimitRepairsCounterWithoutExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	key := "rl:auth_code:ip:1.2.3.4"

	// a counter at the limit that never got its expiry
	require.NoError(t, mr.Set(key, "3"))

	allowed, err := CheckRateLimit(t.Context(), rdb, "auth_code", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL(key))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(t.Context(), rdb, "auth_code", "ip:1.2.3.4", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitKeepsWindowOnLaterHits(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	key := "rl:auth_code:ip:1.2.3.4"

	_, err := CheckRateLimit(t.Context(), rdb, "auth_code", "ip:1.2.3.4", 5, time.Minute)
	require.NoError(t, err)
	mr.FastForward(20 * time.Second)

	_, err = CheckRateLimit(t.Context(), rdb, "auth_code", "ip:1.2.3.4", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 40*time.Second, mr.TTL(key))
}
