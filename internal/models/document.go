package models

// UploadedFile is the raw multipart upload as received by a transport.
// Data is not inspected beyond the filename check.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// TrimmedDocument is a PDF cut down to its leading pages.
// It lives only for the duration of a single request.
type TrimmedDocument struct {
	Data      []byte
	PageCount int
}
