package main

import (
	"io"
	"os"

	"github.com/goodtune/apptime/internal/config"
	"github.com/rs/zerolog"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogMaxSizeMB  = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAgeDays = 7
)

// setupLogger configures the logger based on configuration
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	return newLogger(cfg, logOutput(cfg))
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// logOutput returns stdout, or a rotating file when logging.file is set.
func logOutput(cfg config.LoggingConfig) io.Writer {
	if cfg.File == "" {
		return os.Stdout
	}
	return &lj.Logger{
		Filename:   cfg.File,
		MaxSize:    valOr(cfg.MaxSizeMB, defaultLogMaxSizeMB),
		MaxBackups: valOr(cfg.MaxBackups, defaultLogMaxBackups),
		MaxAge:     valOr(cfg.MaxAgeDays, defaultLogMaxAgeDays),
	}
}

func newLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	if cfg.Format == "text" {
		_, isFile := out.(*lj.Logger)
		return zerolog.New(zerolog.ConsoleWriter{Out: out, NoColor: isFile}).With().Timestamp().Logger()
	}

	// Default to JSON
	return zerolog.New(out).With().Timestamp().Logger()
}

func valOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
