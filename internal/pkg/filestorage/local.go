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

	"github.com/huddleapp/huddle/internal/pkg/apperrors"
	"github.com/huddleapp/huddle/internal/pkg/logger"
)

// LocalStorage implements PhotoStorage on the local filesystem. Objects are
// stored under <basePath>/<ownerID>/<uuid>.<ext> and served statically under
// baseURL.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates a LocalStorage rooted at basePath.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Photo storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Upload implements PhotoStorage.
func (ls *LocalStorage) Upload(fileHeader *multipart.FileHeader, ownerID string) (*UploadResult, error) {
	if fileHeader == nil {
		return nil, apperrors.NewValidationError("no photo provided")
	}
	if fileHeader.Size > MaxPhotoSize {
		return nil, apperrors.NewValidationError("photo must be less than 5MB")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !AllowedPhotoTypes[contentType] {
		return nil, apperrors.NewValidationError("photo must be a JPEG or PNG image")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.NewTransientIOError(err, "failed to open uploaded photo")
	}
	defer src.Close()

	ownerDir := filepath.Join(ls.basePath, ownerID)
	if err := os.MkdirAll(ownerDir, os.ModePerm); err != nil {
		return nil, apperrors.NewTransientIOError(err, "failed to create owner directory")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectName := uuid.New().String() + ext
	dstPath := filepath.Join(ownerDir, objectName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, apperrors.NewTransientIOError(err, "failed to create destination file")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return nil, apperrors.NewTransientIOError(err, "failed to write photo content")
	}

	storagePath := path.Join(ownerID, objectName)
	result := &UploadResult{
		URL:  ls.baseURL + "/" + storagePath,
		Path: storagePath,
	}

	logger.Debug().Str("path", storagePath).Int64("size", fileHeader.Size).Msg("Photo stored")
	return result, nil
}

// Delete implements PhotoStorage.
func (ls *LocalStorage) Delete(storagePath string) error {
	if storagePath == "" {
		return nil
	}

	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(storagePath))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return apperrors.NewTransientIOError(err, "failed to delete stored photo")
	}
	return nil
}
