package middleware

import (
	"campaign-platform/domain"
	"campaign-platform/pkg/cache"
	"campaign-platform/pkg/log"

	"github.com/gin-gonic/gin"
)

// Middlewares defines all available middleware methods
type Middlewares interface {
	// Rate limiting
	RateLimit(config ...RateLimitConfig) gin.HandlerFunc
	RateLimitWithLogger(config ...RateLimitConfig) gin.HandlerFunc
	AuthRateLimits() gin.HandlerFunc

	// Logging
	LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc
	RequestIDMiddleware() gin.HandlerFunc

	// CORS
	CORSWithLogger(config ...CORSConfig) gin.HandlerFunc

	// Authentication and role gating
	Authenticator() gin.HandlerFunc
	RequireProfile() gin.HandlerFunc
	RequireAnyRoles(roles ...domain.Role) gin.HandlerFunc
}

// Dependencies holds all dependencies needed by middlewares
type Dependencies struct {
	Cache        cache.Client
	Logger       log.Logger
	JwtProvider  JwtProvider
	SessionRepo  SessionRepository
	IdentityRepo IdentityRepository
	ProfileRepo  ProfileRepository

	// RateLimitPerMinute applies per client IP to every route except /health.
	RateLimitPerMinute int
	// AuthRateLimitPerMinute applies to sign-in and sign-up.
	AuthRateLimitPerMinute int
}

func NewMiddlewares(deps Dependencies) Middlewares {
	return &middlewares{
		cache:         deps.Cache,
		logger:        deps.Logger,
		jwtProvider:   deps.JwtProvider,
		sessionRepo:   deps.SessionRepo,
		identityRepo:  deps.IdentityRepo,
		profileRepo:   deps.ProfileRepo,
		rateLimit:     int64(deps.RateLimitPerMinute),
		authRateLimit: int64(deps.AuthRateLimitPerMinute),
	}
}

type middlewares struct {
	cache         cache.Client
	logger        log.Logger
	jwtProvider   JwtProvider
	sessionRepo   SessionRepository
	identityRepo  IdentityRepository
	profileRepo   ProfileRepository
	rateLimit     int64
	authRateLimit int64
}
