package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// allowedMimeTypes covers techpacks and costing sheets (PDF/ZIP) plus
// sketches and preview photos (images).
var allowedMimeTypes = map[string]bool{
	"image/jpeg":                   true,
	"image/png":                    true,
	"image/webp":                   true,
	"application/pdf":              true,
	"application/zip":              true,
	"application/x-zip-compressed": true,
}

// extensionMimeTypes maps file extensions to their canonical MIME type,
// used when the client did not send a usable Content-Type for the part.
var extensionMimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateUploadFile validates an uploaded file's type and size before it
// is handed to the blob store
func ValidateUploadFile(fileHeader *multipart.FileHeader) error {
	// Check file size
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	if allowedMimeTypes[ContentTypeOf(fileHeader)] {
		return nil
	}

	return &FileUploadError{
		Code:    "INVALID_FILE_TYPE",
		Message: "Invalid file type! Only Images, PDFs, and ZIP files are allowed.",
	}
}

// ContentTypeOf resolves the MIME type of an uploaded file, preferring the
// declared Content-Type and falling back to the file extension
func ContentTypeOf(fileHeader *multipart.FileHeader) string {
	if ct := fileHeader.Header.Get("Content-Type"); ct != "" {
		// Strip any parameters, e.g. "image/png; charset=binary"
		if i := strings.Index(ct, ";"); i >= 0 {
			ct = ct[:i]
		}
		ct = strings.TrimSpace(strings.ToLower(ct))
		if ct != "application/octet-stream" && ct != "" {
			return ct
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	return extensionMimeTypes[ext]
}
