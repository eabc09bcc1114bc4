package services

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"alfredoptarigan/resume-agent/internal/models"
)

// DocumentParserService turns a stored file into plain text. Failures are
// returned as *models.ExtractionError.
type DocumentParserService interface {
	ExtractText(filePath string) (string, error)
	// ExtractPlainText reads the file as text regardless of its extension.
	ExtractPlainText(filePath string) (string, error)
}

type documentParserService struct{}

func NewDocumentParserService() DocumentParserService {
	return &documentParserService{}
}

func (p *documentParserService) ExtractText(filePath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", &models.ExtractionError{Filename: filePath, Err: err}
	}

	var (
		text string
		err  error
	)
	switch ext := models.ExtensionOf(filePath); ext {
	case ".pdf":
		text, err = extractPDFText(filePath)
	case ".docx", ".doc":
		// Only OOXML content is readable; a legacy binary .doc fails here.
		text, err = extractDocxText(filePath)
	case ".txt":
		text, err = readText(filePath)
	default:
		err = fmt.Errorf("unsupported file extension: %q", ext)
	}
	if err != nil {
		return "", &models.ExtractionError{Filename: filePath, Err: err}
	}

	text = CleanText(text)
	if text == "" {
		return "", &models.ExtractionError{Filename: filePath, Err: fmt.Errorf("no text content found")}
	}

	return text, nil
}

func (p *documentParserService) ExtractPlainText(filePath string) (string, error) {
	text, err := readText(filePath)
	if err != nil {
		return "", &models.ExtractionError{Filename: filePath, Err: err}
	}

	text = CleanText(text)
	if text == "" {
		return "", &models.ExtractionError{Filename: filePath, Err: fmt.Errorf("no text content found")}
	}
	return text, nil
}

func extractPDFText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages and keep the rest.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return textBuilder.String(), nil
}

var (
	docxParagraphEnd = regexp.MustCompile(`</w:p>|<w:br\s*/>|<w:tab\s*/>`)
	xmlTag           = regexp.MustCompile(`<[^>]+>`)
	xmlEntities      = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&apos;", "'")
)

func extractDocxText(filePath string) (string, error) {
	doc, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText flattens WordprocessingML into lines, one per paragraph.
func docxXMLToText(content string) string {
	content = docxParagraphEnd.ReplaceAllString(content, "\n")
	content = xmlTag.ReplaceAllString(content, "")
	return xmlEntities.Replace(content)
}

func readText(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
