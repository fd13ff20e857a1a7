package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Env        string
	File       string // пусто: только stdout
	MaxSizeMB  int
	MaxBackups int
}

func New(opts Options) *slog.Logger {
	level := slog.LevelInfo
	if opts.Env == "dev" {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stdout
	if opts.File != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			Compress:   true,
		})
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

// Discard нужен тестам, где логи только мешают.
func Discard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
