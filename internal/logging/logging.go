// Package logging builds the hclog loggers used across springtint.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvJSON switches output to JSON when set to "1"
	EnvJSON = "SPRINGTINT_JSON_LOG"
	// EnvLevel overrides the configured level
	EnvLevel = "SPRINGTINT_LOG_LEVEL"
)

// New creates a logger with the standard settings. A nil output means stderr.
func New(name, level string, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(level),
		JSONFormat: os.Getenv(EnvJSON) == "1",
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// Level picks the log level: environment first, then configured, then warn.
func Level(configured string) string {
	if level := os.Getenv(EnvLevel); level != "" {
		return level
	}
	if configured != "" {
		return configured
	}
	return "warn"
}
