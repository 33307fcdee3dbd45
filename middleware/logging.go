package middleware

import (
	"time"

	"campaign-platform/common"
	"campaign-platform/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type LoggerConfig struct {
	// SkipPaths is an url path array which logs are not written.
	SkipPaths []string
}

// LoggingMiddleware writes one structured line per request after the handler
// chain has finished.
func (m *middlewares) LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc {
	var conf LoggerConfig
	if len(config) > 0 {
		conf = config[0]
	}

	skipPaths := make(map[string]bool, len(conf.SkipPaths))
	for _, path := range conf.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		if skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		if latency > time.Minute {
			latency = latency.Truncate(time.Second)
		}

		fields := []log.Field{
			log.String("method", c.Request.Method),
			log.String("path", path),
			log.StatusCode(c.Writer.Status()),
			log.Duration("latency", latency),
			log.String("client_ip", common.GetClientIP(c)),
			log.String("user_agent", c.Request.UserAgent()),
			log.Int("response_size", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, log.String("errors", c.Errors.String()))
		}

		ctx := c.Request.Context()
		switch status := c.Writer.Status(); {
		case status >= 500:
			m.logger.ErrorContext(ctx, "HTTP request completed", fields...)
		case status >= 400:
			m.logger.WarnContext(ctx, "HTTP request completed", fields...)
		default:
			m.logger.InfoContext(ctx, "HTTP request completed", fields...)
		}
	}
}

// RequestIDMiddleware reuses an incoming X-Request-ID or mints a new one, and
// exposes it on the response, the gin context and the request context.
func (m *middlewares) RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)
		c.Set(common.RequestIDContextKey, requestID)
		c.Request = c.Request.WithContext(log.ContextWith(c.Request.Context(), log.CtxKeyRequestID, requestID))
		c.Next()
	}
}
