package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrInvalidMimeType = errors.New("file type not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// MaxProofSize is the largest payment proof accepted for upload.
const MaxProofSize = 10 << 20

// ProofMimeTypes are the image types accepted as payment proof.
var ProofMimeTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// ValidateFile reads at most maxSize bytes and checks the sniffed MIME type.
func ValidateFile(reader io.Reader, allowedTypes []string, maxSize int64) ([]byte, string, error) {
	// maxSize + 1 to detect oversized files
	data, err := io.ReadAll(io.LimitReader(reader, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, "", ErrEmptyFile
	}
	if int64(len(data)) > maxSize {
		return nil, "", ErrFileTooLarge
	}

	mimeType := http.DetectContentType(data)
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	for _, t := range allowedTypes {
		if t == mimeType {
			return data, mimeType, nil
		}
	}
	return nil, "", ErrInvalidMimeType
}

// ValidateProof checks an uploaded payment proof.
func ValidateProof(reader io.Reader) ([]byte, string, error) {
	return ValidateFile(reader, ProofMimeTypes, MaxProofSize)
}

// ExtensionForMime returns the file extension for a MIME type
func ExtensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
