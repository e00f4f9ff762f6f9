package services

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/Lllllllleong/intelliask/internal/models"
)

// Trimmer cuts a PDF down to its leading pages.
type Trimmer interface {
	Trim(pdf []byte, maxPages int) (*models.TrimmedDocument, error)
}

// TextExtractor turns a PDF into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, pdf []byte) (string, error)
}

// QuestionGenerator turns plain text into review questions.
type QuestionGenerator interface {
	Generate(ctx context.Context, text string) (string, error)
}

// Pipeline runs trim -> extract -> generate for one upload. It holds no
// per-request state and is safe for concurrent use.
type Pipeline struct {
	trimmer   Trimmer
	extractor TextExtractor
	generator QuestionGenerator
	maxPages  int
	logger    *slog.Logger
}

type PipelineOption func(*Pipeline)

func WithMaxPages(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewPipeline(trimmer Trimmer, extractor TextExtractor, generator QuestionGenerator, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		trimmer:   trimmer,
		extractor: extractor,
		generator: generator,
		maxPages:  DefaultMaxPages,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle validates the upload and runs every stage in order. The first failure
// is returned as a *PipelineError and no later stage runs. Progress is logged
// at debug level only; callers decide how to report failures.
func (p *Pipeline) Handle(ctx context.Context, file models.UploadedFile) (*models.UploadResponse, error) {
	if err := ValidateUpload(file.Filename); err != nil {
		return nil, err
	}

	logCtx := p.logger.With("filename", file.Filename, "sizeBytes", len(file.Data))
	logCtx.Debug("Processing upload.")

	doc, err := p.trimmer.Trim(file.Data, p.maxPages)
	if err != nil {
		logCtx.Debug("Failed to trim PDF", "error", err)
		return nil, classify(err, NewMalformedDocumentError)
	}
	logCtx = logCtx.With("pagesKept", doc.PageCount)

	text, err := p.extractor.Extract(ctx, doc.Data)
	if err != nil {
		logCtx.Debug("Text extraction failed", "error", err)
		return nil, classify(err, NewOCRServiceError)
	}
	textLength := utf8.RuneCountInString(text)
	logCtx.Debug("Text extracted.", "textLength", textLength)

	questions, err := p.generator.Generate(ctx, text)
	if err != nil {
		logCtx.Debug("Question generation failed", "error", err)
		return nil, classify(err, NewInferenceServiceError)
	}
	logCtx.Debug("Questions generated.")

	return &models.UploadResponse{
		Success:             true,
		NumPagesProcessed:   doc.PageCount,
		Questions:           questions,
		ExtractedTextLength: textLength,
	}, nil
}
