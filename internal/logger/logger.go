package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

// Init initializes the global logger. When disabled, all logging calls
// become no-ops.
func Init(enabled bool, levelStr, logFile string, console bool) error {
	if !enabled {
		sugar = zap.NewNop().Sugar()
		return nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(levelStr))
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var paths []string
	if logFile != "" {
		paths = append(paths, logFile)
	}
	if console || len(paths) == 0 {
		paths = append(paths, "stdout")
	}
	cfg.OutputPaths = paths
	cfg.ErrorOutputPaths = paths

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	sugar = l.Sugar()
	return nil
}

func parseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	if sugar == nil {
		return
	}
	sugar.Debugf(format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	if sugar == nil {
		return
	}
	sugar.Infof(format, args...)
}

// Warnf logs a warning.
func Warnf(format string, args ...interface{}) {
	if sugar == nil {
		return
	}
	sugar.Warnf(format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	if sugar == nil {
		return
	}
	sugar.Errorf(format, args...)
}

// Sync flushes buffered log entries.
func Sync() {
	if sugar == nil {
		return
	}
	_ = sugar.Sync()
}
