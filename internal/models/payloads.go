package models

// These structs define the JSON bodies returned by the upload and health endpoints.

// UploadResponse is the body of a successful POST /api/upload.
type UploadResponse struct {
	Success             bool   `json:"success"`
	NumPagesProcessed   int    `json:"num_pages_processed"`
	Questions           string `json:"questions"`
	ExtractedTextLength int    `json:"extracted_text_length"`
}

// ErrorResponse is the body of a failed request. Success is omitted for
// validation failures and set to false for pipeline failures.
type ErrorResponse struct {
	Success *bool  `json:"success,omitempty"`
	Error   string `json:"error"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewValidationErrorResponse builds the {error} body used before the pipeline starts.
func NewValidationErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// NewPipelineErrorResponse builds the {success:false, error} body.
func NewPipelineErrorResponse(message string) ErrorResponse {
	success := false
	return ErrorResponse{Success: &success, Error: message}
}
