// Package logger provides the process-wide operational logger. Domain events
// belong in the encrypted audit log, not here; zap carries diagnostics only.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	lg   *zap.Logger
	once sync.Once
)

// New returns a singleton zap.Logger configured for structured logging.
func New(env string) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		if env != "production" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}

		lg, err = cfg.Build()
	})

	return lg, err
}

// L returns the configured logger, or a no-op logger when New has not run.
func L() *zap.Logger {
	if lg == nil {
		return zap.NewNop()
	}
	return lg
}
