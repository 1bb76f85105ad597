// internal/logging/logging.go
package logging

import (
	"fmt"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamzrod/deflector-control/internal/config"
)

// New builds the process logger from the log section.
// An empty level means info.
func New(c config.LogConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if c.Level != "" {
		l, err := zapcore.ParseLevel(c.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	var zc zap.Config
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}

// FrameLogger returns a std logger for Modbus frame tracing, or nil unless
// debug is enabled on l.
func FrameLogger(l *zap.Logger) *log.Logger {
	if l == nil || !l.Core().Enabled(zapcore.DebugLevel) {
		return nil
	}
	sl, err := zap.NewStdLogAt(l.Named("modbus"), zapcore.DebugLevel)
	if err != nil {
		return nil
	}
	return sl
}
