package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Bekzhanizb/SocialHabitsBackend/cache"
	"github.com/Bekzhanizb/SocialHabitsBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CachedResponse struct {
	Status      int         `json:"status"`
	ContentType string      `json:"content_type"`
	Body        []byte      `json:"body"`
	Headers     http.Header `json:"headers"`
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheMiddleware serves successful GET responses from redis, keyed per
// authenticated user so one user's habit list never leaks into another's.
func CacheMiddleware(duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		userID := ""
		if user, ok := CurrentUser(c); ok {
			userID = user.ID
		}

		cacheKey := fmt.Sprintf("cache:%s:%s?%s", userID, c.Request.URL.Path, c.Request.URL.RawQuery)

		var cachedResponse CachedResponse
		if err := cache.Get(cacheKey, &cachedResponse); err == nil {
			for key, values := range cachedResponse.Headers {
				for _, value := range values {
					c.Header(key, value)
				}
			}
			c.Header("X-Cache", "HIT")
			c.Data(cachedResponse.Status, cachedResponse.ContentType, cachedResponse.Body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		blw := &bodyLogWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			cachedResp := CachedResponse{
				Status:      c.Writer.Status(),
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        blw.body.Bytes(),
				Headers:     c.Writer.Header(),
			}

			if err := cache.Set(cacheKey, cachedResp, duration); err != nil {
				utils.Logger.Debug("cache_set_failed",
					zap.Error(err),
					zap.String("key", cacheKey),
				)
			}
		}
	}
}

// InvalidateUserCache drops every cached response for a user. Called after
// habit mutations and check-ins so lists and stats reflect the write.
func InvalidateUserCache(userID string) {
	patterns := []string{
		fmt.Sprintf("cache:%s:*", userID),
		fmt.Sprintf("user_stats:%s", userID),
	}
	for _, pattern := range patterns {
		if err := cache.DeletePattern(pattern); err != nil && err != cache.ErrDisabled {
			utils.Logger.Warn("cache_invalidate_failed",
				zap.String("pattern", pattern),
				zap.Error(err),
			)
		}
	}
}

// InvalidateFeedCaches drops cached feeds of everyone following the user who
// just checked in.
func InvalidateFeedCaches(followerIDs []string) {
	for _, id := range followerIDs {
		if err := cache.DeletePattern(fmt.Sprintf("cache:%s:/api/feed*", id)); err != nil && err != cache.ErrDisabled {
			utils.Logger.Warn("cache_invalidate_failed",
				zap.String("follower_id", id),
				zap.Error(err),
			)
		}
	}
}

// RateLimitMiddleware throttles by client IP with a redis counter. When
// redis is down the limiter fails open.
func RateLimitMiddleware(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		key := fmt.Sprintf("rate_limit:%s", clientIP)

		count, err := cache.IncrementCounter(key, window)
		if err != nil {
			if err != cache.ErrDisabled {
				utils.Logger.Error("rate_limit_error", zap.Error(err))
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequests))
		remaining := maxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > int64(maxRequests) {
			utils.Logger.Warn("rate_limit_exceeded",
				zap.String("ip", clientIP),
				zap.Int64("count", count),
			)
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}

		c.Next()
	}
}
