package log

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Field = zap.Field

type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Printf(format string, args ...interface{})
	Println(args ...interface{})
	With(fields ...Field) Logger
	InfoContext(ctx context.Context, msg string, fields ...Field)
	WarnContext(ctx context.Context, msg string, fields ...Field)
	ErrorContext(ctx context.Context, msg string, fields ...Field)
	WithContext(ctx context.Context) Logger
	Sync() error
}

// Context keys read by the *Context methods. Values are found either through
// ContextWith or, for a *gin.Context, under the same plain string keys.
const (
	CtxKeyRequestID = "request_id"
	CtxKeyUserID    = "user_id"
	CtxKeyRole      = "role"
)

func String(key, value string) Field                 { return zap.String(key, value) }
func Int(key string, value int) Field                { return zap.Int(key, value) }
func Int64(key string, value int64) Field            { return zap.Int64(key, value) }
func Bool(key string, value bool) Field              { return zap.Bool(key, value) }
func Duration(key string, value time.Duration) Field { return zap.Duration(key, value) }
func Error(err error) Field                          { return zap.Error(err) }
func Any(key string, value interface{}) Field        { return zap.Any(key, value) }
func UserID(value string) Field                      { return zap.String(CtxKeyUserID, value) }
func RequestID(value string) Field                   { return zap.String(CtxKeyRequestID, value) }
func DraftID(value string) Field                     { return zap.String("draft_id", value) }
func CampaignID(value string) Field                  { return zap.String("campaign_id", value) }
func StatusCode(value int) Field                     { return zap.Int("status_code", value) }

type ctxKey string

// ContextWith stores a request-scoped log value on ctx under one of the
// CtxKey* names.
func ContextWith(ctx context.Context, key, value string) context.Context {
	return context.WithValue(ctx, ctxKey(key), value)
}

// ValueFrom reads a value stored by ContextWith.
func ValueFrom(ctx context.Context, key string) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(ctxKey(key)).(string)
	return v
}

var defaultLogger Logger

func SetDefaultLogger(logger Logger) {
	defaultLogger = logger
}

// GetDefaultLogger returns the process logger, falling back to a development
// logger when none has been installed.
func GetDefaultLogger() Logger {
	if defaultLogger == nil {
		defaultLogger = MustNewDevelopmentLogger()
	}
	return defaultLogger
}
