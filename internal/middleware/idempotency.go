package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-hrportal/internal/shared/apperror"
	"go-hrportal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	idempotencyLockTTL = 30 * time.Second
	codeProcessing     = "PROCESSING"
)

type cachedResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

var errIdempotencyUnavailable = apperror.New(
	apperror.CodeServiceUnavailable,
	"Idempotency store unavailable",
	http.StatusServiceUnavailable,
)

// Idempotency replays the cached response of a POST carrying an
// Idempotency-Key that already succeeded, and rejects a duplicate while the
// first one is still in flight. The handler owns releasing the lock and
// writing the cache under idempotency_lock_key / idempotency_cache_key.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	log := zap.L().Named("middleware.idempotency")

	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		userID := c.GetString("user_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		val, err := rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var cached cachedResponse
			if jsonErr := json.Unmarshal([]byte(val), &cached); jsonErr == nil && cached.Status != 0 {
				log.Debug("idempotent replay", zap.String("key", cacheKey))
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
			log.Warn("idempotency cache entry unreadable", zap.String("key", cacheKey))
		} else if err != redis.Nil {
			log.Warn("idempotency cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Error("idempotency lock failed", zap.String("key", lockKey), zap.Error(err))
			abortWithError(c, errIdempotencyUnavailable)
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, codeProcessing, "The request is already being processed", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_cache_key", cacheKey)
		c.Set("idempotency_lock_key", lockKey)

		c.Next()
	}
}
