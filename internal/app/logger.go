package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/briancappello/starter/internal/config"
)

// NewLogger builds the process logger from cfg and installs it as the slog
// default. Records go to stderr and, when cfg.File is set, to a log file
// rotated by size.
//
// Format "json" writes JSON; anything else writes text with source
// locations. Level accepts slog level names (debug, info, warn, error,
// optionally with an offset such as "info+2") and falls back to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = io.MultiWriter(os.Stderr, rotatingFile(cfg))
	}
	logger := slog.New(newHandler(out, cfg))
	slog.SetDefault(logger)
	return logger
}

func rotatingFile(cfg config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

func newHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, AddSource: true})
}
