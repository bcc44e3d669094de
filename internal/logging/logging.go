// Package logging builds the zerolog logger used by the contract host.
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/CosmWasm/wasmicq/internal/config"
)

// New builds a logger writing to w according to cfg.
func New(w io.Writer, cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
	}
	// ParseLevel maps "" to NoLevel, which would log everything
	if cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	switch cfg.Format {
	case config.FormatJSON:
	case config.FormatConsole, "":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return zerolog.New(w).Level(level).With().Timestamp().Str("app", "wasmicq").Logger(), nil
}

// Nop discards everything. Tests use it where log output is irrelevant.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
