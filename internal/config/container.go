package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Lllllllleong/intelliask/internal/gcp"
	"github.com/Lllllllleong/intelliask/internal/handler"
	"github.com/Lllllllleong/intelliask/internal/services"
)

// Container holds the long-lived clients and the handlers built on them.
// Every transport builds exactly one at startup.
type Container struct {
	Config        *Config
	Logger        *slog.Logger
	Pipeline      *services.Pipeline
	UploadHandler *handler.UploadHandler

	closers []func() error
}

// NewContainer wires the pipeline. An OCR client that cannot be built is not
// fatal: the pipeline reports the construction error on first use.
func NewContainer(ctx context.Context, cfg *Config, logger *slog.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	extractor, err := c.newExtractor(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	chatModel, err := services.NewOpenAIChatModel(cfg.InferenceBaseURL, cfg.InferenceAPIKey, cfg.InferenceModel)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("failed to create inference client: %w", err)
	}

	c.Pipeline = services.NewPipeline(
		services.NewPDFTrimmer(),
		extractor,
		services.NewChatQuestionGenerator(chatModel),
		services.WithMaxPages(cfg.MaxPages),
		services.WithLogger(logger),
	)
	c.UploadHandler = handler.NewUploadHandler(c.Pipeline, logger)
	logger.Debug("Pipeline initialized.", "maxPages", cfg.MaxPages, "ocrModel", cfg.OCRModel, "inferenceModel", cfg.InferenceModel)
	return c, nil
}

func (c *Container) newExtractor(ctx context.Context) (services.TextExtractor, error) {
	vertexClient, err := gcp.NewVertexClient(ctx, c.Config.ProjectID, c.Config.VertexAIRegion, c.Config.OCRModel, c.Config.GeminiAPIKey)
	if err != nil {
		c.Logger.Warn("OCR client unavailable; uploads will fail until it is configured", "error", err)
		return services.UnavailableExtractor{Err: err}, nil
	}
	c.closers = append(c.closers, vertexClient.Close)

	extractor := services.NewGeminiExtractor(vertexClient.OCRModel)
	if c.Config.OCRStagingBucket == "" {
		return extractor, nil
	}

	stager, err := gcp.NewStager(ctx, c.Config.OCRStagingBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR staging bucket client: %w", err)
	}
	c.closers = append(c.closers, stager.Close)
	return extractor.WithStager(stager), nil
}

// Close releases every client the container opened.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
