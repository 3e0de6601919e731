package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-timeclock/internal/middleware"
)

const (
	idempPath     = "/punches/clock-in"
	idempCacheKey = "idemp:" + idempPath + ":worker-1:key-abc"
	idempLockKey  = idempCacheKey + ":lock"
)

func newIdempotencyRouter(rdb *redis.Client, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST(idempPath,
		func(c *gin.Context) { c.Set("worker_id", "worker-1") },
		middleware.Idempotency(rdb),
		handler,
	)
	return r
}

func postClockIn(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, idempPath, strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency(t *testing.T) {
	t.Run("scopes the key per worker and lets the first attempt through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(idempCacheKey).RedisNil()
		mock.ExpectSetNX(idempLockKey, "locked", 30*time.Second).SetVal(true)

		var seenCacheKey, seenLockKey string
		r := newIdempotencyRouter(rdb, func(c *gin.Context) {
			seenCacheKey = c.GetString("idempotency_cache_key")
			seenLockKey = c.GetString("idempotency_lock_key")
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		rec := postClockIn(r, "key-abc")
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, idempCacheKey, seenCacheKey)
		assert.Equal(t, idempLockKey, seenLockKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replays a cached response without reaching the handler", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(idempCacheKey).SetVal(`{"id":"p-1","status":"PENDING"}`)

		handlerRan := false
		r := newIdempotencyRouter(rdb, func(c *gin.Context) { handlerRan = true })

		rec := postClockIn(r, "key-abc")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, handlerRan)
		assert.Contains(t, rec.Body.String(), `"id":"p-1"`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a duplicate while the first is in flight", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(idempCacheKey).RedisNil()
		mock.ExpectSetNX(idempLockKey, "locked", 30*time.Second).SetVal(false)

		handlerRan := false
		r := newIdempotencyRouter(rdb, func(c *gin.Context) { handlerRan = true })

		rec := postClockIn(r, "key-abc")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, handlerRan)
		assert.Contains(t, rec.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ignores requests without a key", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		handlerRan := false
		r := newIdempotencyRouter(rdb, func(c *gin.Context) {
			handlerRan = true
			c.Status(http.StatusCreated)
		})

		rec := postClockIn(r, "")
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, handlerRan)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
