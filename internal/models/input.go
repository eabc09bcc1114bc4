package models

import (
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type InputSourceKind string

const (
	SourceFile InputSourceKind = "file"
	SourceText InputSourceKind = "text"
)

// InputField names one logical input of a request.
type InputField string

const (
	FieldCV             InputField = "cv"
	FieldJobDescription InputField = "jd"
)

func (f InputField) FileKey() string { return string(f) + "_file" }
func (f InputField) TextKey() string { return string(f) + "_text" }

func (f InputField) DisplayName() string {
	switch f {
	case FieldCV:
		return "CV"
	case FieldJobDescription:
		return "Job Description"
	default:
		return string(f)
	}
}

// AllowedExtensions is the upload allow-list, lowercase with the dot.
var AllowedExtensions = []string{".pdf", ".docx", ".doc", ".txt"}

func IsAllowedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func ExtensionOf(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}

// RawInput is what a front end received for one field before
// normalization: an upload, inline text, both, or neither.
type RawInput struct {
	File *multipart.FileHeader
	Text string
}

func (r RawInput) HasFile() bool {
	return r.File != nil && r.File.Filename != ""
}

// HasText treats whitespace-only text as absent.
func (r RawInput) HasText() bool {
	return strings.TrimSpace(r.Text) != ""
}

// TemporaryArtifact is an upload copied to local disk so the text
// extractor can read it. It belongs to exactly one request.
type TemporaryArtifact struct {
	ID               uuid.UUID
	Path             string
	OriginalFilename string
	Extension        string
	Size             int64
}

// CanonicalInput is a resolved logical input. Exactly one of Text or
// FileReference is set.
type CanonicalInput struct {
	SourceKind       InputSourceKind
	Text             string
	FileReference    *TemporaryArtifact
	OriginalFilename string
}

func TextInput(text string) *CanonicalInput {
	return &CanonicalInput{
		SourceKind: SourceText,
		Text:       strings.TrimSpace(text),
	}
}

func FileInput(artifact *TemporaryArtifact) *CanonicalInput {
	return &CanonicalInput{
		SourceKind:       SourceFile,
		FileReference:    artifact,
		OriginalFilename: artifact.OriginalFilename,
	}
}
