package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"campaign-platform/common"
	"campaign-platform/pkg/cache"
	"campaign-platform/pkg/log"

	"github.com/gin-gonic/gin"
)

const (
	PathSignIn = "/api/v1/auth/sign-in"
	PathSignUp = "/api/v1/auth/sign-up"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	WindowSize  time.Duration
	MaxRequests int64

	KeyPrefix    string
	KeyGenerator func(*gin.Context) string

	SkipPaths     []string
	SkipCondition func(*gin.Context) bool

	OnLimitReached func(*gin.Context, RateLimitInfo)
}

// RateLimitInfo contains rate limit status information
type RateLimitInfo struct {
	Key        string
	Limit      int64
	Remaining  int64
	RetryAt    time.Time
	WindowSize time.Duration
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		WindowSize:     time.Minute,
		MaxRequests:    100,
		KeyPrefix:      "rate_limit",
		KeyGenerator:   defaultKeyGenerator,
		SkipPaths:      []string{"/health"},
		OnLimitReached: defaultOnLimitReached,
	}
}

func (cfg RateLimitConfig) withDefaults() RateLimitConfig {
	def := DefaultRateLimitConfig()
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = def.KeyGenerator
	}
	if cfg.OnLimitReached == nil {
		cfg.OnLimitReached = def.OnLimitReached
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = def.KeyPrefix
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = def.WindowSize
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	return cfg
}

// RateLimit is a fixed-window counter kept in the cache. Cache failures let
// the request through.
func (m *middlewares) RateLimit(config ...RateLimitConfig) gin.HandlerFunc {
	cfg := DefaultRateLimitConfig()
	if len(config) > 0 {
		cfg = config[0].withDefaults()
	}

	skipPaths := make(map[string]bool, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		if skipPaths[c.Request.URL.Path] || (cfg.SkipCondition != nil && cfg.SkipCondition(c)) {
			c.Next()
			return
		}

		info, allowed := checkRateLimit(c.Request.Context(), m.cache, cfg, cfg.KeyGenerator(c), time.Now())
		setRateLimitHeaders(c, info)
		if !allowed {
			cfg.OnLimitReached(c, info)
			return
		}
		c.Next()
	}
}

func (m *middlewares) RateLimitWithLogger(config ...RateLimitConfig) gin.HandlerFunc {
	cfg := DefaultRateLimitConfig()
	if len(config) > 0 {
		cfg = config[0].withDefaults()
	}

	next := cfg.OnLimitReached
	cfg.OnLimitReached = func(c *gin.Context, info RateLimitInfo) {
		m.logger.WarnContext(c.Request.Context(), "Rate limit exceeded",
			log.String("key", info.Key),
			log.Int64("limit", info.Limit),
			log.String("client_ip", common.GetClientIP(c)),
			log.String("path", c.Request.URL.Path),
		)
		next(c, info)
	}
	return m.RateLimit(cfg)
}

// AuthRateLimits applies the stricter per-IP budget to sign-in and sign-up
// and the general budget everywhere else.
func (m *middlewares) AuthRateLimits() gin.HandlerFunc {
	general := m.RateLimitWithLogger(RateLimitConfig{
		MaxRequests: m.rateLimit,
		KeyPrefix:   "rate_limit:api",
		SkipPaths:   []string{"/health"},
	})
	signIn := m.RateLimitWithLogger(RateLimitConfig{
		MaxRequests: m.authRateLimit,
		KeyPrefix:   "rate_limit:sign_in",
	})
	signUp := m.RateLimitWithLogger(RateLimitConfig{
		MaxRequests: m.authRateLimit,
		KeyPrefix:   "rate_limit:sign_up",
	})

	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case PathSignIn:
			signIn(c)
		case PathSignUp:
			signUp(c)
		default:
			general(c)
		}
	}
}

func checkRateLimit(ctx context.Context, client cache.Client, cfg RateLimitConfig, subject string, now time.Time) (RateLimitInfo, bool) {
	windowStart := now.Truncate(cfg.WindowSize)
	resetTime := windowStart.Add(cfg.WindowSize)
	key := cache.Key(cfg.KeyPrefix, subject, strconv.FormatInt(windowStart.Unix(), 10))

	info := RateLimitInfo{
		Key:        key,
		Limit:      cfg.MaxRequests,
		Remaining:  cfg.MaxRequests,
		WindowSize: cfg.WindowSize,
	}

	current, err := client.Increment(ctx, key, 1, cfg.WindowSize)
	if err != nil {
		return info, true
	}

	info.Remaining = max(cfg.MaxRequests-current, 0)
	info.RetryAt = resetTime
	return info, current <= cfg.MaxRequests
}

func setRateLimitHeaders(c *gin.Context, info RateLimitInfo) {
	c.Header("X-RateLimit-Limit", strconv.FormatInt(info.Limit, 10))
	c.Header("X-RateLimit-Remaining", strconv.FormatInt(info.Remaining, 10))
}

func defaultKeyGenerator(c *gin.Context) string {
	return "ip:" + common.GetClientIP(c)
}

func defaultOnLimitReached(c *gin.Context, info RateLimitInfo) {
	common.ResponseTooManyRequests(c,
		fmt.Sprintf("Too many requests. Limit %d requests per %v", info.Limit, info.WindowSize),
		info.RetryAt)
}

// UserKeyGenerator limits per authenticated identity, falling back to IP.
func UserKeyGenerator(c *gin.Context) string {
	if identityID := common.GetIdentityID(c); identityID != "" {
		return "user:" + identityID
	}
	return defaultKeyGenerator(c)
}
