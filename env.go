package keel

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvLogLevel   = "KEEL_LOG_LEVEL"   // debug | info | warn | error; unset disables logging
	EnvLogFormat  = "KEEL_LOG_FORMAT"  // json (default) | console
	EnvLogLocates = "KEEL_LOG_LOCATES" // true installs LoggingMiddleware
)

// OptionsFromEnv builds builder options from the environment. Named files are
// loaded with godotenv first and must exist; with no files, a .env in the working
// directory is loaded if present. Variables already set in the process win over
// file values.
func OptionsFromEnv(files ...string) ([]Option, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	} else {
		// Non-fatal: .env is optional
		_ = godotenv.Load()
	}

	level := strings.TrimSpace(os.Getenv(EnvLogLevel))
	if level == "" {
		return nil, nil
	}

	logger, err := newEnvLogger(level, os.Getenv(EnvLogFormat))
	if err != nil {
		return nil, err
	}

	opts := []Option{WithLogger(logger)}

	if envBool(EnvLogLocates) {
		opts = append(opts, WithMiddleware(LoggingMiddleware(logger)))
	}

	return opts, nil
}

func newEnvLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
	}

	var cfg zap.Config

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("%s: unknown format %q", EnvLogFormat, format)
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

func envBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))

	return err == nil && b
}
