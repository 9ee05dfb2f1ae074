package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// RequestLogger records one entry per HTTP request.
	RequestLogger = zap.NewNop()
	// SystemLogger records startup, migrations and background failures.
	SystemLogger = zap.NewNop()

	exit = os.Exit
)

func newLogger(level zapcore.Level) *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(os.Stdout),
		level,
	)
	return zap.New(core)
}

// ParseLevel converts a LOG_LEVEL value into a zap level. Unknown values
// fall back to info.
func ParseLevel(value string) zapcore.Level {
	level, err := zapcore.ParseLevel(value)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// InitLoggers builds the process-wide loggers writing JSON to stdout.
func InitLoggers(level string) {
	lvl := ParseLevel(level)
	RequestLogger = newLogger(lvl).Named("request")
	SystemLogger = newLogger(lvl).Named("system")
}

func SyncLoggers() {
	_ = RequestLogger.Sync()
	_ = SystemLogger.Sync()
}

// Fatal logs msg on the system logger, flushes both loggers and exits with
// status 1. Deferred calls in the caller do not run.
func Fatal(msg string, fields ...zap.Field) {
	SystemLogger.Error(msg, fields...)
	SyncLoggers()
	exit(1)
}
