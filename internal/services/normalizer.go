package services

import (
	"errors"
	"log"
	"sync"

	"alfredoptarigan/resume-agent/internal/models"
)

// InputNormalizer turns the raw fields of a request into CanonicalInputs.
// Uploads are validated before anything touches the disk.
type InputNormalizer struct {
	storage     StorageService
	maxFileSize int64
}

func NewInputNormalizer(storage StorageService, maxFileSize int64) *InputNormalizer {
	return &InputNormalizer{
		storage:     storage,
		maxFileSize: maxFileSize,
	}
}

// Begin opens a scope that owns every artifact created while resolving one
// request. Callers must Release it on every exit path.
func (n *InputNormalizer) Begin() *InputScope {
	return &InputScope{normalizer: n}
}

type InputScope struct {
	normalizer *InputNormalizer

	mu        sync.Mutex
	artifacts []*models.TemporaryArtifact
}

// Resolve picks the source for one field. When both a file and text are
// supplied the file wins. A field the operation does not accept is never
// read, and an absent optional field resolves to nil without error.
func (s *InputScope) Resolve(field models.InputField, raw models.RawInput, req models.Requirement, op models.OperationKind) (*models.CanonicalInput, error) {
	if req == models.RequirementNotAccepted {
		return nil, nil
	}

	switch {
	case raw.HasFile():
		return s.resolveFile(field, raw)
	case raw.HasText():
		return models.TextInput(raw.Text), nil
	}

	switch req {
	case models.RequirementRequired:
		return nil, models.NewMissingInputError(field, op, false)
	case models.RequirementRequiredForOperation:
		return nil, models.NewMissingInputError(field, op, true)
	default:
		return nil, nil
	}
}

func (s *InputScope) resolveFile(field models.InputField, raw models.RawInput) (*models.CanonicalInput, error) {
	ext := models.ExtensionOf(raw.File.Filename)
	if !models.IsAllowedExtension(ext) {
		return nil, &models.UnsupportedFormatError{Field: field, Extension: ext}
	}

	maxSize := s.normalizer.maxFileSize
	if maxSize > 0 && raw.File.Size > maxSize {
		return nil, &models.FileTooLargeError{Field: field, Size: raw.File.Size, MaxSize: maxSize}
	}

	artifact, err := s.normalizer.storage.SaveTemp(raw.File, field)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.artifacts = append(s.artifacts, artifact)
	s.mu.Unlock()

	return models.FileInput(artifact), nil
}

// Artifacts returns the files currently owned by the scope.
func (s *InputScope) Artifacts() []*models.TemporaryArtifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.TemporaryArtifact(nil), s.artifacts...)
}

// Release deletes every artifact and is safe to call more than once.
func (s *InputScope) Release() error {
	s.mu.Lock()
	artifacts := s.artifacts
	s.artifacts = nil
	s.mu.Unlock()

	var errs []error
	for _, artifact := range artifacts {
		if err := s.normalizer.storage.DeleteTemp(artifact); err != nil {
			log.Printf("⚠️  Failed to delete temp file %s: %v\n", artifact.Path, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
