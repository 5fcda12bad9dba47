// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	LevelEnvVar  = "PW_LOG_LEVEL"
	DefaultLevel = logrus.WarnLevel
)

// Setup points logrus at stderr with the level named by $PW_LOG_LEVEL.
// An unknown level falls back to warn and is reported.
func Setup() {
	if err := Configure(os.Stderr, os.Getenv(LevelEnvVar)); err != nil {
		logrus.WithError(err).Warn("invalid log level, using default")
	}
}

// Configure sets output, formatter and level on the standard logger
func Configure(out io.Writer, level string) error {
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logrus.SetLevel(DefaultLevel)

	if level == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", LevelEnvVar, level, err)
	}
	logrus.SetLevel(lvl)
	return nil
}
