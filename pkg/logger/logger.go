package logger

import (
	"log/slog"
	"os"
)

// Log is usable before Init so background goroutines and tests never hit a
// nil logger; Init swaps in the production configuration.
var Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
}))

func Init() {
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	Log = slog.New(handler)
}
