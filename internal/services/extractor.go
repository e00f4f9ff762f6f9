package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/Lllllllleong/intelliask/internal/gcp"
)

const pdfMIMEType = "application/pdf"

// ContentGenerator is the part of *genai.GenerativeModel the extractor needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// DocumentStager makes document bytes reachable by URI for the duration of a request.
type DocumentStager interface {
	Stage(ctx context.Context, data []byte, mimeType string) (uri string, cleanup func(), err error)
}

// GeminiExtractor turns a PDF into plain text with a Gemini model.
type GeminiExtractor struct {
	model  ContentGenerator
	stager DocumentStager
}

// NewGeminiExtractor sends documents inline. Use WithStager to send them by URI instead.
func NewGeminiExtractor(model ContentGenerator) *GeminiExtractor {
	return &GeminiExtractor{model: model}
}

// WithStager routes documents through stager before they reach the model.
func (e *GeminiExtractor) WithStager(stager DocumentStager) *GeminiExtractor {
	e.stager = stager
	return e
}

// Extract returns the model's text verbatim.
func (e *GeminiExtractor) Extract(ctx context.Context, pdf []byte) (string, error) {
	docPart, cleanup, err := e.documentPart(ctx, pdf)
	if err != nil {
		return "", NewOCRServiceError(err)
	}
	defer cleanup()

	resp, err := e.model.GenerateContent(ctx, docPart, genai.Text(gcp.OCRPrompt))
	if err != nil {
		return "", NewOCRServiceError(err)
	}
	return responseText(resp), nil
}

func (e *GeminiExtractor) documentPart(ctx context.Context, pdf []byte) (genai.Part, func(), error) {
	if e.stager == nil {
		return genai.Blob{MIMEType: pdfMIMEType, Data: pdf}, func() {}, nil
	}
	uri, cleanup, err := e.stager.Stage(ctx, pdf, pdfMIMEType)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stage document: %w", err)
	}
	return genai.FileData{MIMEType: pdfMIMEType, FileURI: uri}, cleanup, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	var textParts int
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
			textParts++
		}
	}
	if textParts > 1 {
		slog.Debug("Gemini response contained several text parts; concatenated.", "parts", textParts)
	}
	return sb.String()
}

// UnavailableExtractor stands in when the OCR client could not be built at
// startup. Every call fails with the construction error.
type UnavailableExtractor struct {
	Err error
}

func (u UnavailableExtractor) Extract(context.Context, []byte) (string, error) {
	return "", NewOCRServiceError(u.Err)
}
