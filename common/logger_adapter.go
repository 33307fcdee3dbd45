package common

import (
	"fmt"

	"campaign-platform/pkg/log"
)

// Logger is the key/value logging surface shared by pkg/cache, pkg/email and
// the response helpers.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Printf(format string, args ...interface{})
	Println(args ...interface{})
}

// LoggerAdapter adapts pkg/log.Logger to the key/value Logger interface.
type LoggerAdapter struct {
	logger log.Logger
}

func NewLoggerAdapter(logger log.Logger) Logger {
	return &LoggerAdapter{logger: logger}
}

// toFields pairs keys with values. A trailing key without a value is kept
// under "!BADKEY" rather than dropped.
func toFields(keysAndValues []interface{}) []log.Field {
	fields := make([]log.Field, 0, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 >= len(keysAndValues) {
			fields = append(fields, log.Any("!BADKEY", keysAndValues[i]))
			break
		}
		key := fmt.Sprintf("%v", keysAndValues[i])
		if err, ok := keysAndValues[i+1].(error); ok {
			fields = append(fields, log.String(key, err.Error()))
			continue
		}
		fields = append(fields, log.Any(key, keysAndValues[i+1]))
	}
	return fields
}

func (a *LoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, toFields(keysAndValues)...)
}

func (a *LoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, toFields(keysAndValues)...)
}

func (a *LoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	a.logger.Debug(msg, toFields(keysAndValues)...)
}

func (a *LoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	a.logger.Warn(msg, toFields(keysAndValues)...)
}

func (a *LoggerAdapter) Printf(format string, args ...interface{})  { a.logger.Printf(format, args...) }
func (a *LoggerAdapter) Println(args ...interface{})                { a.logger.Println(args...) }
func (a *LoggerAdapter) Infof(format string, args ...interface{})   { a.logger.Infof(format, args...) }
func (a *LoggerAdapter) Errorf(format string, args ...interface{})  { a.logger.Errorf(format, args...) }
func (a *LoggerAdapter) Debugf(format string, args ...interface{})  { a.logger.Debugf(format, args...) }
func (a *LoggerAdapter) Warnf(format string, args ...interface{})   { a.logger.Warnf(format, args...) }
