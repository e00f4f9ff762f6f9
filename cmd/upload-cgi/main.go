package main

import (
	"context"
	"log/slog"
	"net/http/cgi"
	"os"

	"github.com/Lllllllleong/intelliask/internal/config"
	"github.com/Lllllllleong/intelliask/internal/handler"
)

// main serves exactly one request. Stdout carries the CGI response, so logs go to stderr.
func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)
	cfg.WarnMissingCredentials(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("CGI request failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	container, err := config.NewContainer(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Critical error during initialization", "error", err)
		return cgi.Serve(handler.InitFailure(err))
	}
	defer container.Close()

	return cgi.Serve(container.UploadHandler)
}
