// Package logging builds the zerolog logger shared by commands and services.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	Level   string // debug, info, warn, error
	Format  string // json, pretty
	Service string
	Version string

	// File, when set, also writes JSON lines to a size-rotated file.
	File       string
	MaxSizeMB  int
	MaxAgeDays int
}

// New returns a configured logger writing to stderr.
func New(cfg Config) (zerolog.Logger, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit console destination.
func NewWithWriter(cfg Config, out io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
		}
	}

	var console io.Writer
	switch cfg.Format {
	case "pretty":
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	case "json", "":
		console = out
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", cfg.Format)
	}

	writers := []io.Writer{console}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("creating log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxAge:     cfg.MaxAgeDays,
			MaxBackups: 10,
			Compress:   true,
		})
	}

	zerolog.TimeFieldFormat = time.RFC3339
	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	return ctx.Logger(), nil
}
