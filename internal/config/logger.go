package config

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger: a development logger for local runs,
// a JSON production logger otherwise.
func NewLogger(conf App) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", conf.LogLevel, err)
	}

	var zc zap.Config
	if conf.LogDevelopment {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	logger.Info("✅ Zap logger initialized", zap.String("level", level.String()))
	return logger, nil
}
