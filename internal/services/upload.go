package services

import "strings"

// ValidateUpload checks the declared filename of an upload. The suffix check is
// case-sensitive and the content itself is not sniffed.
func ValidateUpload(filename string) error {
	if filename == "" {
		return NewValidationError(MsgNoFileSelected)
	}
	if !strings.HasSuffix(filename, ".pdf") {
		return NewValidationError(MsgOnlyPDF)
	}
	return nil
}
