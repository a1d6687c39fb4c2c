package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/jsonplaceholder-api/pkg/apperror"
)

const keyPrefix = "jph:rl:"

// KeyFunc names the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that bypass the limit.
type AllowFunc func(*gin.Context) bool

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return keyPrefix + "ip:" + clientIP(c)
	}
}

// KeyByIPAndPath limits by client IP and matched route, so register and
// login get separate budgets.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		return keyPrefix + "route:" + route + ":ip:" + clientIP(c)
	}
}

// KeyByUserID limits by the credential attached by Gate, falling back to IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserID); uid != "" {
			return keyPrefix + "user:" + uid
		}
		return keyPrefix + "anon:" + clientIP(c)
	}
}

// Fixed window counter: INCR, expiry set on the first hit, returns
// {count, pttl}.
var fixedWindow = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

type windowState struct {
	count int64
	reset time.Duration
}

func hit(ctx context.Context, rdb redis.Scripter, key string, window time.Duration) (windowState, error) {
	vals, err := fixedWindow.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return windowState{}, err
	}
	if len(vals) != 2 {
		return windowState{}, redis.Nil
	}
	return windowState{count: vals[0], reset: time.Duration(vals[1]) * time.Millisecond}, nil
}

// RateLimit allows max requests per window for each key and answers 429
// through the error envelope once the budget is spent. OPTIONS requests and
// requests accepted by allow are never counted. A nil rdb disables limiting;
// Redis errors let the request through.
func RateLimit(rdb redis.Scripter, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := int64(max)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		st, err := hit(c.Request.Context(), rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}

		resetSec := int64((st.reset + time.Second - 1) / time.Second)
		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max64(limit-st.count, 0), 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(max64(resetSec, 0), 10))

		if st.count > limit {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.FormatInt(resetSec, 10))
			}
			_ = c.Error(apperror.TooManyRequests("Too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
