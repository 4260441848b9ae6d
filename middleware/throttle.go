package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"gamesite/monitoring"
	"gamesite/utils"

	"github.com/gin-gonic/gin"
)

// LoginOutcomeKey is set by the login handler to LoginSucceeded or LoginFailed.
const (
	LoginOutcomeKey = "login_outcome"
	LoginSucceeded  = "success"
	LoginFailed     = "failure"
)

// AttemptLimiter counts failed logins per client.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// LoginThrottle rejects clients with too many recent failed logins and keeps
// the counter up to date from the handler's outcome. Limiter errors never
// block a login.
func LoginThrottle(limiter AttemptLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		key := c.ClientIP()

		allowed, retry, err := limiter.Allow(ctx, key)
		if err != nil {
			utils.LogWarn("Login limiter unavailable", map[string]interface{}{"error": err.Error()})
		}
		if !allowed {
			monitoring.AuthenticationAttempts.WithLabelValues("throttled").Inc()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail": "Too many failed login attempts. Try again later.",
			})
			return
		}

		c.Next()

		switch c.GetString(LoginOutcomeKey) {
		case LoginFailed:
			err = limiter.Fail(ctx, key)
		case LoginSucceeded:
			err = limiter.Reset(ctx, key)
		default:
			err = nil
		}
		if err != nil {
			utils.LogWarn("Failed to update login limiter", map[string]interface{}{"error": err.Error()})
		}
	}
}
