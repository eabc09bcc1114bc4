package chat

import (
	"os"
	"regexp"
	"strings"
)

// filePathPattern matches Windows absolute paths (which may contain
// spaces) or any whitespace-free token ending in a supported extension.
var filePathPattern = regexp.MustCompile(`(?i)([A-Za-z]:\\[^:*?"<>|]+\.(pdf|docx|doc|txt)|[^\s]+\.(pdf|docx|doc|txt))`)

const filePrefix = "file:"

type FileReference struct {
	Path string
	// Remaining is the input with the path removed.
	Remaining string
	// Forced is set when the user typed the file: prefix. The path may
	// not exist in that case.
	Forced bool
}

type FileReferenceDetector interface {
	DetectFileReference(input string) (FileReference, bool)
}

type RegexDetector struct {
	exists func(path string) bool
}

func NewRegexDetector() *RegexDetector {
	return &RegexDetector{exists: fileExists}
}

// DetectFileReference returns the first candidate path that exists on
// disk. Candidates that do not exist are skipped.
func (d *RegexDetector) DetectFileReference(input string) (FileReference, bool) {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) >= len(filePrefix) && strings.EqualFold(trimmed[:len(filePrefix)], filePrefix) {
		return FileReference{
			Path:   strings.TrimSpace(trimmed[len(filePrefix):]),
			Forced: true,
		}, true
	}

	for _, candidate := range filePathPattern.FindAllString(input, -1) {
		if d.exists(candidate) {
			return FileReference{
				Path:      candidate,
				Remaining: strings.TrimSpace(strings.ReplaceAll(input, candidate, "")),
			}, true
		}
	}

	return FileReference{}, false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
