package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapConfig defines construction options for the zap-backed logger.
type ZapConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "console", "json"
	Output string // "stderr", "stdout"
}

// DefaultZapConfig returns the launcher's default logger configuration:
// human-readable console output on stderr, so the backend's own channel
// (stdout) stays clean.
func DefaultZapConfig() ZapConfig {
	return ZapConfig{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

type zapSprintfLogger struct {
	sugar *zap.SugaredLogger
}

// NewZapLogger creates a Logger backed by zap. The returned sync function
// flushes buffered entries and should be deferred by the caller.
func NewZapLogger(config ZapConfig) (Logger, func() error, error) {
	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", config.Level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder

	var encoder zapcore.Encoder
	switch config.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default: // "console" or anything else
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writeSyncer zapcore.WriteSyncer
	switch config.Output {
	case "stdout":
		writeSyncer = zapcore.Lock(zapcore.AddSync(os.Stdout))
	default: // "stderr" or anything else
		writeSyncer = zapcore.Lock(zapcore.AddSync(os.Stderr))
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	zapLogger := zap.New(core)

	return &zapSprintfLogger{sugar: zapLogger.Sugar()}, zapLogger.Sync, nil
}

func (z *zapSprintfLogger) Debugf(format string, args ...interface{}) {
	z.sugar.Debugf(format, args...)
}

func (z *zapSprintfLogger) Infof(format string, args ...interface{}) {
	z.sugar.Infof(format, args...)
}

func (z *zapSprintfLogger) Warnf(format string, args ...interface{}) {
	z.sugar.Warnf(format, args...)
}

func (z *zapSprintfLogger) Errorf(format string, args ...interface{}) {
	z.sugar.Errorf(format, args...)
}
