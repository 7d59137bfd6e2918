// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package system

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the console logger used by the alarm flows. Progress lines go to
// stdout so they interleave with the rendered messages; internal zap errors go to stderr.
// Debug mode lowers the level and adds caller information.
func NewLogger(debug bool) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if !debug {
		cfg.Development = false
		cfg.DisableCaller = true
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// HostFields returns key/value pairs identifying a mail server endpoint, suitable
// for SugaredLogger.With or Infow calls. An empty user is omitted.
func HostFields(host string, port int, user string) []interface{} {
	if user == "" {
		return []interface{}{"host", host, "port", port}
	}
	return []interface{}{"host", host, "port", port, "user", user}
}
