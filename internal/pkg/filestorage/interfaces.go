package filestorage

import (
	"errors"
	"mime/multipart"
)

var (
	// ErrUnsupportedType is returned for uploads whose extension is not allowed
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrFileTooLarge is returned when an upload exceeds MaxResumeSize
	ErrFileTooLarge = errors.New("file too large")
)

// MaxResumeSize is the upper bound for a resume upload (5 MiB)
const MaxResumeSize = 5 << 20

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores the upload under subPath and returns its public URL
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file by its URL
	DeleteFile(fileURL string) error
}
