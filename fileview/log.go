package fileview

import (
	"log/slog"
	"os"
	"sync"
)

var (
	levelVar = new(slog.LevelVar)
	logMu    sync.RWMutex
	logger   = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
)

// SetLogger replaces the package logger. A nil logger restores the default.
func SetLogger(l *slog.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelVar}))
	}
	logger = l
}

// SetDebug enables debug level output on the default logger.
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

func log() *slog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}
