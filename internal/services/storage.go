package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"alfredoptarigan/resume-agent/internal/models"
)

// StorageService owns the on-disk copies of uploads. Every artifact it
// hands out gets a unique name, so concurrent requests never collide.
type StorageService interface {
	SaveTemp(file *multipart.FileHeader, field models.InputField) (*models.TemporaryArtifact, error)
	DeleteTemp(artifact *models.TemporaryArtifact) error
	EnsureTempDir() error
}

type storageService struct {
	tempPath string
}

func NewStorageService(tempPath string) StorageService {
	return &storageService{
		tempPath: tempPath,
	}
}

func (s *storageService) EnsureTempDir() error {
	if err := os.MkdirAll(s.tempPath, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	return nil
}

// SaveTemp does not validate the extension; callers gate that first.
func (s *storageService) SaveTemp(file *multipart.FileHeader, field models.InputField) (*models.TemporaryArtifact, error) {
	ext := models.ExtensionOf(file.Filename)
	id := uuid.New()

	uniqueFilename := fmt.Sprintf("%s_%s%s", field, id.String(), ext)
	filePath := filepath.Join(s.tempPath, uniqueFilename)

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &models.TemporaryArtifact{
		ID:               id,
		Path:             filePath,
		OriginalFilename: file.Filename,
		Extension:        ext,
		Size:             written,
	}, nil
}

// DeleteTemp is idempotent: an artifact that is already gone is not an error.
func (s *storageService) DeleteTemp(artifact *models.TemporaryArtifact) error {
	if artifact == nil {
		return nil
	}
	if err := os.Remove(artifact.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete temp file: %w", err)
	}
	return nil
}
