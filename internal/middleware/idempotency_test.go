package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-hrportal/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const (
	testCacheKey = "idemp:/declaration:user-1:key-1"
	testLockKey  = testCacheKey + ":lock"
)

func newIdempotencyRouter(t *testing.T, mw gin.HandlerFunc, handler gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/declaration", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Next()
	}, mw, handler)
	return r
}

func doPost(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/declaration", nil)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency(t *testing.T) {
	t.Run("no key passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		called := false
		r := newIdempotencyRouter(t, middleware.Idempotency(rdb), func(c *gin.Context) {
			called = true
			c.Status(http.StatusNoContent)
		})

		rec := doPost(r, "")

		assert.True(t, called)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request takes the lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(testCacheKey).RedisNil()
		mock.ExpectSetNX(testLockKey, "locked", 30*time.Second).SetVal(true)

		var gotCache, gotLock string
		r := newIdempotencyRouter(t, middleware.Idempotency(rdb), func(c *gin.Context) {
			gotCache = c.GetString("idempotency_cache_key")
			gotLock = c.GetString("idempotency_lock_key")
			c.Status(http.StatusCreated)
		})

		rec := doPost(r, "key-1")

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, testCacheKey, gotCache)
		assert.Equal(t, testLockKey, gotLock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replays cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(testCacheKey).SetVal(`{"status":201,"data":{"id":"abc"}}`)

		called := false
		r := newIdempotencyRouter(t, middleware.Idempotency(rdb), func(c *gin.Context) {
			called = true
		})

		rec := doPost(r, "key-1")

		assert.False(t, called)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var body struct {
			Ok   bool `json:"ok"`
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Ok)
		assert.Equal(t, "abc", body.Data.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight duplicate conflicts", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(testCacheKey).RedisNil()
		mock.ExpectSetNX(testLockKey, "locked", 30*time.Second).SetVal(false)

		called := false
		r := newIdempotencyRouter(t, middleware.Idempotency(rdb), func(c *gin.Context) {
			called = true
		})

		rec := doPost(r, "key-1")

		assert.False(t, called)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lock store failure", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(testCacheKey).RedisNil()
		mock.ExpectSetNX(testLockKey, "locked", 30*time.Second).SetErr(errors.New("redis down"))

		r := newIdempotencyRouter(t, middleware.Idempotency(rdb), func(c *gin.Context) {
			t.Fatal("handler must not run")
		})

		rec := doPost(r, "key-1")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
