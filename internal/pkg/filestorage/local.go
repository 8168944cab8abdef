package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/placement/internal/pkg/logger"
)

// ResumeExtensions lists the accepted resume formats
var ResumeExtensions = map[string]bool{".pdf": true, ".doc": true, ".docx": true}

// PublicPrefix is the URL path the storage directory is served under
const PublicPrefix = "/uploads"

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a new LocalStorage instance.
// baseURL is optional; when empty returned URLs are relative ("/uploads/...").
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the directory served under PublicPrefix
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// CheckResume validates a resume upload before it is stored
func CheckResume(fileHeader *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !ResumeExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if fileHeader.Size > MaxResumeSize {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, fileHeader.Size)
	}
	return nil
}

// SaveFileWithPath saves a file to a specified subdirectory
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	subPath = strings.Trim(filepath.ToSlash(filepath.Clean("/"+subPath)), "/")
	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	// uuid names keep uploads from colliding or overwriting each other
	name := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	url := ls.baseURL + path.Join(PublicPrefix, subPath, name)
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", name).Str("url", url).Msg("File saved successfully")
	return url, nil
}

// DeleteFile removes a stored file by its URL. Missing files are not an error.
func (ls *LocalStorage) DeleteFile(fileURL string) error {
	physical, ok := ls.physicalPath(fileURL)
	if !ok {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	if err := os.Remove(physical); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physical).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physical).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// physicalPath maps a URL produced by SaveFileWithPath back onto disk
func (ls *LocalStorage) physicalPath(fileURL string) (string, bool) {
	rel := strings.TrimPrefix(fileURL, ls.baseURL)
	idx := strings.Index(rel, PublicPrefix+"/")
	if idx < 0 {
		return "", false
	}
	rel = rel[idx+len(PublicPrefix):]
	if strings.Contains(rel, "..") {
		return "", false
	}
	rel = path.Clean(rel)
	if rel == "/" {
		return "", false
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(strings.TrimPrefix(rel, "/"))), true
}
