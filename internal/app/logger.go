package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Local runs default to the readable
// text handler; deployments set LOG_FORMAT=json for ingestion. Every line
// carries the service name so portal logs are separable from the core
// API's in a shared sink.
func NewLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{AddSource: true})
	}
	return slog.New(handler).With(slog.String("service", "onboard-portal"))
}
