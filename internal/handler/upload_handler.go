// Package handler provides the HTTP adapters shared by every transport.
package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/intelliask/internal/models"
	"github.com/Lllllllleong/intelliask/internal/services"
)

const (
	uploadField = "file"
	// Larger multipart parts spill to temp files, removed when the request ends.
	multipartMemory = 32 << 20
)

// Uploader runs the pipeline for one file.
type Uploader interface {
	Handle(ctx context.Context, file models.UploadedFile) (*models.UploadResponse, error)
}

// UploadHandler serves POST /api/upload and its CORS preflight.
type UploadHandler struct {
	uploader Uploader
	logger   *slog.Logger
}

func NewUploadHandler(uploader Uploader, logger *slog.Logger) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{uploader: uploader, logger: logger}
}

func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		writePreflight(w)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", allowedMethods)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	file, err := readUpload(r)
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}
	if err != nil {
		h.writeFailure(w, err)
		return
	}

	resp, err := h.uploader.Handle(r.Context(), file)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// readUpload pulls the "file" part out of a multipart request. A part sent
// with an empty filename is stored by net/http as a plain value, which is how
// an empty file input is told apart from a missing one. A body that is not
// multipart is a validation failure; a body that fails to read is not.
func readUpload(r *http.Request) (models.UploadedFile, error) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return models.UploadedFile{}, services.NewValidationError(services.MsgNoFileUploaded)
		}
		return models.UploadedFile{}, fmt.Errorf("failed to read multipart form: %w", err)
	}
	if r.MultipartForm == nil {
		return models.UploadedFile{}, services.NewValidationError(services.MsgNoFileUploaded)
	}

	headers := r.MultipartForm.File[uploadField]
	if len(headers) == 0 {
		if _, ok := r.MultipartForm.Value[uploadField]; ok {
			return models.UploadedFile{}, services.NewValidationError(services.MsgNoFileSelected)
		}
		return models.UploadedFile{}, services.NewValidationError(services.MsgNoFileUploaded)
	}

	header := headers[0]
	if header.Filename == "" {
		return models.UploadedFile{}, services.NewValidationError(services.MsgNoFileSelected)
	}

	f, err := header.Open()
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return models.UploadedFile{}, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	return models.UploadedFile{Filename: header.Filename, Data: data}, nil
}

func (h *UploadHandler) writeFailure(w http.ResponseWriter, err error) {
	if pe := services.AsPipelineError(err); pe != nil && pe.Kind == services.KindValidation {
		writeError(w, pe.StatusCode(), pe.Error())
		return
	}
	h.logger.Error("Upload failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, models.NewPipelineErrorResponse(err.Error()))
}
