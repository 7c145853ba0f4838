package logger

import (
	"log/slog"
	"os"
)

// New возвращает JSON-логгер; в dev — текстовый и с debug-уровнем,
// чтобы локально было читаемо.
func New(env string) *slog.Logger {
	if env == "dev" {
		h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
		return slog.New(h)
	}
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h)
}
