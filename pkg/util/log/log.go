package log

import (
	"fmt"
	stdlog "log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

func init() {
	logger, _ = zap.NewDevelopment(zap.AddCallerSkip(1))
}

// Configure replaces the global logger. formatter is "text" or "json".
func Configure(level string, formatter string, fields map[string]interface{}) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %v", level, err)
	}

	var config zap.Config
	switch formatter {
	case "", "text":
		config = zap.NewDevelopmentConfig()
	case "json":
		config = zap.NewProductionConfig()
	default:
		return fmt.Errorf("unsupported formatter: %q", formatter)
	}

	config.Level = zap.NewAtomicLevelAt(lvl)
	config.InitialFields = fields
	l, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}

	logger = l
	return nil
}

// StdLogger adapts the global logger for libraries that want a *log.Logger.
func StdLogger() *stdlog.Logger {
	return zap.NewStdLog(logger.WithOptions(zap.AddCallerSkip(-1)))
}

func Sync() {
	logger.Sync()
}

func At(level zapcore.Level, msg string, fields ...zap.Field) {
	if ce := logger.Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	logger.Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}
