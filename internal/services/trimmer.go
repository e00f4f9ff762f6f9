package services

import (
	"bytes"
	"fmt"

	"github.com/Lllllllleong/intelliask/internal/models"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const DefaultMaxPages = 8

// PDFTrimmer keeps the leading pages of a PDF using pdfcpu. All work happens in
// memory; nothing is written to disk.
type PDFTrimmer struct{}

func NewPDFTrimmer() *PDFTrimmer {
	return &PDFTrimmer{}
}

// Trim returns a new document holding the first min(total, maxPages) pages in
// their original order.
func (t *PDFTrimmer) Trim(pdf []byte, maxPages int) (*models.TrimmedDocument, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	total, err := api.PageCount(bytes.NewReader(pdf), newPDFConfig())
	if err != nil {
		return nil, NewMalformedDocumentError(fmt.Errorf("failed to get page count: %w", err))
	}
	kept := keptPageCount(total, maxPages)

	var out bytes.Buffer
	if kept == 0 {
		// Nothing to select; pass the (empty) document through pdfcpu unchanged.
		if err := api.Optimize(bytes.NewReader(pdf), &out, newPDFConfig()); err != nil {
			return nil, NewMalformedDocumentError(fmt.Errorf("failed to rewrite empty PDF: %w", err))
		}
		return &models.TrimmedDocument{Data: out.Bytes(), PageCount: 0}, nil
	}

	if err := api.Trim(bytes.NewReader(pdf), &out, pageSelection(kept), newPDFConfig()); err != nil {
		return nil, NewMalformedDocumentError(fmt.Errorf("failed to trim PDF: %w", err))
	}
	return &models.TrimmedDocument{Data: out.Bytes(), PageCount: kept}, nil
}

// newPDFConfig returns a fresh configuration per call; pdfcpu mutates it.
func newPDFConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

func keptPageCount(total, maxPages int) int {
	if total < 0 {
		return 0
	}
	return min(total, maxPages)
}

// pageSelection expresses "first n pages" in pdfcpu's page selection syntax.
func pageSelection(n int) []string {
	if n == 1 {
		return []string{"1"}
	}
	return []string{fmt.Sprintf("1-%d", n)}
}
