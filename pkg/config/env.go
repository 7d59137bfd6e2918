// SPDX-FileCopyrightText: 2025 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultConfigFile = "alarmctl.yaml"
	DefaultEnvFile    = ".env"
)

// DefaultConfigPath returns $ALARMCTL_CONFIG or alarmctl.yaml in the working directory.
func DefaultConfigPath() string {
	return GetEnvString("ALARMCTL_CONFIG", defaultConfigFile)
}

// LoadEnvFile exports the variables of a dotenv file into the process environment.
// Variables that are already set win. A missing file is not an error; the boolean
// reports whether a file was read.
func LoadEnvFile(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return true, nil
}

// GetEnvString returns the value of an environment variable or the default if not set.
func GetEnvString(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// GetEnvBool returns the value of an environment variable as a bool, or the provided default if not set.
// Valid true values are "true", "1", "yes" (case-insensitive).
func GetEnvBool(key string, defaultVal bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}
