package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Lllllllleong/intelliask/internal/config"
	"github.com/Lllllllleong/intelliask/internal/handler"
)

var (
	uploadHandler http.Handler
	once          sync.Once
)

func init() {
	// Register the HTTP function with the framework.
	// "HandleUpload" is the entry point name configured in GCP.
	functions.HTTP("HandleUpload", handleUpload)
}

// main is required by the Go Functions Framework.
func main() {}

// handleUpload is the serverless entry point for POST /api/upload.
func handleUpload(w http.ResponseWriter, r *http.Request) {
	// Clients are built once per instance and reused across invocations.
	once.Do(func() {
		cfg := config.Load()
		logger := config.NewLogger(cfg.LogLevel, os.Stdout)
		slog.SetDefault(logger)
		cfg.WarnMissingCredentials(logger)

		container, err := config.NewContainer(context.Background(), cfg, logger)
		if err != nil {
			logger.Error("Critical error during function initialization", "error", err)
			uploadHandler = handler.InitFailure(err)
			return
		}
		uploadHandler = container.UploadHandler
	})

	uploadHandler.ServeHTTP(w, r)
}
