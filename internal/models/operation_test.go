package models

import (
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupOperation(t *testing.T) {
	op, ok := LookupOperation(OperationCompare)
	require.True(t, ok)
	assert.Equal(t, "/compare", op.Route)
	assert.Equal(t, "comparison", op.ResultKey)
	assert.Equal(t, RequirementRequiredForOperation, op.JobDescription)

	op, ok = LookupOperation(OperationEvaluateATS)
	require.True(t, ok)
	assert.Equal(t, RequirementOptional, op.JobDescription)

	_, ok = LookupOperation("translate")
	assert.False(t, ok)
}

func TestOperationTableIsConsistent(t *testing.T) {
	routes := map[string]bool{}
	keys := map[string]bool{}
	for _, op := range Operations {
		assert.False(t, routes[op.Route], "duplicate route %s", op.Route)
		assert.False(t, keys[op.ResultKey], "duplicate result key %s", op.ResultKey)
		routes[op.Route] = true
		keys[op.ResultKey] = true

		assert.Equal(t, RequirementRequired, op.CV, "%s must require a CV", op.Kind)
		assert.NotEmpty(t, op.FailureLabel)
	}
	assert.Len(t, Operations, 8)
}

func TestParseFocusAreas(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"single", "summary", []string{"summary"}},
		{"trims and keeps order", " skills , experience,summary ", []string{"skills", "experience", "summary"}},
		{"drops empty entries", "skills,, ,summary,", []string{"skills", "summary"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFocusAreas(tt.raw))
		})
	}
}

func TestRawInputPresence(t *testing.T) {
	tests := []struct {
		name     string
		in       RawInput
		wantFile bool
		wantText bool
	}{
		{"nothing", RawInput{}, false, false},
		{"whitespace text is absent", RawInput{Text: " \n\t "}, false, false},
		{"text", RawInput{Text: "Go developer"}, false, true},
		{"file without name is absent", RawInput{File: &multipart.FileHeader{}}, false, false},
		{"file", RawInput{File: &multipart.FileHeader{Filename: "cv.pdf"}}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFile, tt.in.HasFile())
			assert.Equal(t, tt.wantText, tt.in.HasText())
		})
	}
}

func TestIsAllowedExtension(t *testing.T) {
	for _, ext := range []string{".pdf", ".PDF", ".docx", ".doc", ".txt"} {
		assert.True(t, IsAllowedExtension(ext), ext)
	}
	for _, ext := range []string{".exe", "", ".rtf", "pdf"} {
		assert.False(t, IsAllowedExtension(ext), ext)
	}
	assert.Equal(t, ".pdf", ExtensionOf("Resume.Final.PDF"))
}

func TestMissingInputErrorMessages(t *testing.T) {
	cvErr := NewMissingInputError(FieldCV, OperationParse, false)
	assert.Equal(t, "Either 'cv_file' or 'cv_text' must be provided for the CV", cvErr.Error())

	jdErr := NewMissingInputError(FieldJobDescription, OperationCompare, true)
	assert.Contains(t, jdErr.Error(), "'jd_file' or 'jd_text'")
	assert.Contains(t, jdErr.Error(), "Job Description")
	assert.Contains(t, jdErr.Error(), "compare")
	assert.Equal(t, FieldJobDescription, jdErr.Field)
}

func TestGatewayErrorRetryable(t *testing.T) {
	assert.True(t, (&GatewayError{Status: 429}).Retryable())
	assert.True(t, (&GatewayError{Status: 503}).Retryable())
	assert.False(t, (&GatewayError{Status: 401}).Retryable())
	assert.False(t, (&GatewayError{Status: 400}).Retryable())
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewMissingInputError(FieldCV, OperationParse, false), "missing_input"},
		{&UnsupportedFormatError{Field: FieldCV, Extension: ".exe"}, "unsupported_format"},
		{&FileTooLargeError{Field: FieldCV}, "file_too_large"},
		{&InvalidParameterError{Name: "top_n"}, "invalid_parameter"},
		{fmt.Errorf("wrapped: %w", &ExtractionError{Filename: "cv.pdf"}), "extraction_failed"},
		{&GatewayError{Status: 502}, "gateway_error"},
		{errors.New("boom"), "internal_error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err))
	}
}
