package log

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ExitOnFatal is switched off by tests so Fatal only logs
var ExitOnFatal = true

// Init builds the process logger for the given level and installs it as zap's global
func Init(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(logger)
	return nil
}

// fallback receives Fatal output while zap's global logger is still the no-op default
var fallback zapcore.WriteSyncer = zapcore.Lock(os.Stderr)

func Fatal(msg string, err error) {
	logger := zap.L()
	if !logger.Core().Enabled(zapcore.ErrorLevel) {
		encoder := zapcore.NewConsoleEncoder(zap.NewProductionEncoderConfig())
		logger = zap.New(zapcore.NewCore(encoder, fallback, zapcore.ErrorLevel))
	}
	logger.Error(msg, zap.Error(err))
	_ = logger.Sync()
	if ExitOnFatal {
		os.Exit(1)
	}
}

func WarnIfErr(description string, err error) {
	if err != nil {
		zap.L().Warn(description, zap.Error(err))
	}
}

func ErrIfErr(description string, err error) {
	if err != nil {
		zap.L().Error(description, zap.Error(err))
	}
}
