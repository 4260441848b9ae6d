// Package cache holds the redis-backed counters used to throttle logins.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const LoginAttemptPrefix = "login:fail:" // login:fail:<ip>

// Options configures the redis connection. Addr is either host:port or a
// redis:// (rediss://) URL; a non-empty Password overrides the URL's.
type Options struct {
	Addr     string
	Password string
}

type Client struct {
	rdb *redis.Client
}

func clientOptions(opts Options) (*redis.Options, error) {
	ro := &redis.Options{Addr: opts.Addr}
	if strings.Contains(opts.Addr, "://") {
		var err error
		ro, err = redis.ParseURL(opts.Addr)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
	}
	if opts.Password != "" {
		ro.Password = opts.Password
	}
	ro.DialTimeout = 5 * time.Second
	ro.ReadTimeout = 3 * time.Second
	ro.WriteTimeout = 3 * time.Second
	ro.PoolSize = 10
	ro.MinIdleConns = 2
	return ro, nil
}

// Connect opens a redis connection and pings it.
func Connect(opts Options) (*Client, error) {
	ro, err := clientOptions(opts)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(ro)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewClient(rdb), nil
}

// NewClient wraps an existing redis client.
func NewClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// LoginLimiter counts failed logins per key (the client IP) in a fixed window.
// A limiter with a nil client allows everything.
type LoginLimiter struct {
	client      *Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(client *Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func (l *LoginLimiter) enabled() bool {
	return l != nil && l.client != nil && l.client.rdb != nil && l.maxAttempts > 0
}

// Allow reports whether key may try to log in, and if not, how long until
// the window resets.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	if !l.enabled() {
		return true, 0, nil
	}
	k := LoginAttemptPrefix + key
	count, err := l.client.rdb.Get(ctx, k).Int()
	if err == redis.Nil {
		return true, 0, nil
	}
	if err != nil {
		return true, 0, err
	}
	if count < l.maxAttempts {
		return true, 0, nil
	}
	ttl, err := l.client.rdb.TTL(ctx, k).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return false, ttl, nil
}

// Fail records a failed attempt. The window starts at the first failure.
func (l *LoginLimiter) Fail(ctx context.Context, key string) error {
	if !l.enabled() {
		return nil
	}
	k := LoginAttemptPrefix + key
	pipe := l.client.rdb.TxPipeline()
	pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, l.window)
	_, err := pipe.Exec(ctx)
	return err
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if !l.enabled() {
		return nil
	}
	return l.client.rdb.Del(ctx, LoginAttemptPrefix+key).Err()
}
