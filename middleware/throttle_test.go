package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamesite/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeLimiter struct {
	blocked bool
	fails   int
	resets  int
}

func (f *fakeLimiter) Allow(context.Context, string) (bool, time.Duration, error) {
	if f.blocked {
		return false, 90 * time.Second, nil
	}
	return true, 0, nil
}

func (f *fakeLimiter) Fail(context.Context, string) error {
	f.fails++
	return nil
}

func (f *fakeLimiter) Reset(context.Context, string) error {
	f.resets++
	return nil
}

func throttledRouter(l middleware.AttemptLimiter, outcome string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/login/", middleware.LoginThrottle(l), func(c *gin.Context) {
		if outcome != "" {
			c.Set(middleware.LoginOutcomeKey, outcome)
		}
		c.Status(http.StatusOK)
	})
	return r
}

func TestLoginThrottleBlocks(t *testing.T) {
	l := &fakeLimiter{blocked: true}
	w := httptest.NewRecorder()
	throttledRouter(l, middleware.LoginFailed).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login/", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "90", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many failed login attempts")
	assert.Zero(t, l.fails, "blocked requests never reach the handler")
}

func TestLoginThrottleRecordsOutcome(t *testing.T) {
	l := &fakeLimiter{}
	r := throttledRouter(l, middleware.LoginFailed)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 3, l.fails)

	r = throttledRouter(l, middleware.LoginSucceeded)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login/", nil))
	assert.Equal(t, 1, l.resets)
}

func TestLoginThrottleIgnoresOtherMethods(t *testing.T) {
	l := &fakeLimiter{blocked: true}
	w := httptest.NewRecorder()
	throttledRouter(l, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
