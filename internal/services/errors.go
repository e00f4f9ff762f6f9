package services

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a pipeline failure.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindMalformedDocument ErrorKind = "malformed_document"
	KindOCRService        ErrorKind = "ocr_service"
	KindInferenceService  ErrorKind = "inference_service"
)

// Validation messages returned to callers verbatim.
const (
	MsgNoFileUploaded = "No file uploaded"
	MsgNoFileSelected = "No file selected"
	MsgOnlyPDF        = "Only PDF files are accepted"
)

// PipelineError is the single error type surfaced by the pipeline.
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// StatusCode maps the failure class to an HTTP status.
// Only validation happens before the pipeline starts; everything else is a 500.
func (e *PipelineError) StatusCode() int {
	if e.Kind == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func NewValidationError(message string) *PipelineError {
	return &PipelineError{Kind: KindValidation, Message: message}
}

func NewMalformedDocumentError(err error) *PipelineError {
	return &PipelineError{Kind: KindMalformedDocument, Message: "malformed PDF document", Err: err}
}

func NewOCRServiceError(err error) *PipelineError {
	return &PipelineError{Kind: KindOCRService, Message: "OCR service failed", Err: err}
}

func NewInferenceServiceError(err error) *PipelineError {
	return &PipelineError{Kind: KindInferenceService, Message: "inference service failed", Err: err}
}

// AsPipelineError returns the *PipelineError in err's chain, or nil.
func AsPipelineError(err error) *PipelineError {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return nil
}

// classify keeps an existing *PipelineError and wraps anything else with wrap.
func classify(err error, wrap func(error) *PipelineError) *PipelineError {
	if pe := AsPipelineError(err); pe != nil {
		return pe
	}
	return wrap(err)
}
