package system

import (
	"go.uber.org/zap"
)

// NewTestLogger returns a sugared logger for tests and previews. It mirrors the
// development logger but writes to stderr and drops stack traces, so expected
// failures in tests do not flood the output.
func NewTestLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return logger.Sugar()
}
